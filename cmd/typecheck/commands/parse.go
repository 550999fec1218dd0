/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse EXPR...",
		Short: "Print the canonical form of type hint expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, expr := range args {
				h, err := c.parser.Parse(expr)
				if err != nil {
					return zerr.With(zerr.Wrap(err, "invalid hint"), "hint", expr)
				}
				fmt.Fprintln(cmd.OutOrStdout(), h)
			}
			return nil
		},
	}
}
