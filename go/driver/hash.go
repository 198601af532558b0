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
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tiltworks/pinball/go/admission"
)

var HashCmd = cli.Command{
	Action:    doHash,
	Name:      "hash",
	Usage:     "Print the commitment hash of a ball file",
	ArgsUsage: "<ball-file>",
}

func doHash(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one ball file argument")
	}
	ball, err := os.ReadFile(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read ball file: %w", err)
	}
	fmt.Println(admission.HashBall(ball))
	return nil
}
