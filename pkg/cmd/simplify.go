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

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/zeroelim"
)

// simplifyCmd represents the simplify command
var simplifyCmd = &cobra.Command{
	Use:   "simplify [flags] problem_file",
	Short: "Simplify the iteration domain described by a problem file.",
	Long: `Simplify the iteration domain described by a problem file.
	The file declares variables with their ranges and a set of conditions;
	the command solves the equalities, deskews the domain and prints the
	resulting transformation.`,
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
		domain := zeroelim.NewDomain(prob.vars, prob.conditions, prob.ranges)
		log.Debugf("simplifying %s", domain.String())
		//
		transf := zeroelim.SimplifyDomain(domain, !GetFlag(cmd, "no-divmod"))
		//
		if GetFlag(cmd, "json") {
			writeTransformationJson(transf)
		} else {
			writeTransformationText(transf)
		}
	},
}

func writeTransformationText(transf *zeroelim.DomainTransformation) {
	// Decorative headers are for humans only
	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	//
	if pretty {
		fmt.Println("== simplified domain ==")
	}
	//
	fmt.Println(transf.NewDomain.String())
	//
	if pretty {
		fmt.Println("== variable mapping ==")
	}
	//
	fmt.Printf("old_to_new=%s\n", ir.FormatVarMap(transf.OldToNew))
	fmt.Printf("new_to_old=%s\n", ir.FormatVarMap(transf.NewToOld))
}

// jsonTransformation is the machine-readable rendering of a domain
// transformation.
type jsonTransformation struct {
	Variables  []jsonRange       `json:"variables"`
	Conditions []string          `json:"conditions"`
	OldToNew   map[string]string `json:"old_to_new"`
	NewToOld   map[string]string `json:"new_to_old"`
}

type jsonRange struct {
	Name   string `json:"name"`
	Min    string `json:"min"`
	Extent string `json:"extent"`
}

func writeTransformationJson(transf *zeroelim.DomainTransformation) {
	var res jsonTransformation
	//
	for _, v := range transf.NewDomain.Variables {
		r := transf.NewDomain.Ranges[v]
		res.Variables = append(res.Variables,
			jsonRange{v.Name, r.Min.String(), r.Extent.String()})
	}
	//
	for _, cond := range transf.NewDomain.Conditions {
		res.Conditions = append(res.Conditions, cond.String())
	}
	//
	res.OldToNew = varMapStrings(transf.OldToNew)
	res.NewToOld = varMapStrings(transf.NewToOld)
	//
	bytes, err := json.Marshal(&res)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	fmt.Println(string(bytes))
}

func varMapStrings(m map[*ir.Var]ir.Expr) map[string]string {
	res := make(map[string]string, len(m))
	//
	for _, entry := range ir.SortVarMap(m) {
		res[entry.Var.Name] = entry.Value.String()
	}
	//
	return res
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
	simplifyCmd.Flags().Bool("json", false, "emit machine-readable output")
	simplifyCmd.Flags().Bool("no-divmod", false, "skip div/mod elimination")
}
