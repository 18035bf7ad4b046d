// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/loom-lang/loom/pkg/zeroelim"
)

// liftCmd represents the lift command
var liftCmd = &cobra.Command{
	Use:   "lift [flags] problem_file",
	Short: "Lift the nonzeroness condition out of an expression.",
	Long: `Lift the nonzeroness condition out of an expression.
	The problem file must contain an (expr ...) section; the command prints
	the equivalent select(cond, value, 0) form.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		prob, err := readProblemFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if prob.expr == nil {
			fmt.Println("the problem file declares no expression")
			os.Exit(2)
		}
		//
		fmt.Println(zeroelim.LiftNonzeronessCondition(prob.expr).String())
	},
}

func init() {
	rootCmd.AddCommand(liftCmd)
}
