// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tiltworks/pinball/go/leaderboard"
)

var ScoresCmd = cli.Command{
	Action: doScores,
	Name:   "scores",
	Usage:  "Print the top scores recorded in the leaderboard",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "driver configuration file",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "leaderboard database to read",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "number of entries to show",
			Value: 10,
		},
	},
}

func doScores(context *cli.Context) error {
	config, err := loadConfig(context.String("config"))
	if err != nil {
		return err
	}
	if db := context.String("db"); db != "" {
		config.Database = db
	}
	if config.Database == "" {
		return fmt.Errorf("no leaderboard database configured")
	}

	store, err := leaderboard.Open(config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.TopScores(context.Int("limit"))
	if err != nil {
		return err
	}
	for i, entry := range entries {
		fmt.Printf("%3d. %12d  %s  %s\n",
			i+1, entry.Score, entry.Submitter, entry.PlayedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
