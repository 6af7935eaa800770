package main

import (
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"

	"github.com/PolyhedraZK/ecvm/poseidon"
	"github.com/PolyhedraZK/ecvm/program"
)

var rate int

func initHashCmd(rootCmd *cobra.Command) {
	hashCmd := &cobra.Command{
		Use:   "hash [--rate <rate>] <field>...",
		Short: "poseidon hash of field elements",
		RunE:  runHash,
	}
	hashCmd.Flags().IntVar(&rate, "rate", 2, "sponge rate (2, 4 or 8)")
	rootCmd.AddCommand(hashCmd)
}

// parseFields accepts field literals with or without the type suffix.
func parseFields(args []string) ([]fr.Element, error) {
	out := make([]fr.Element, len(args))
	for i, arg := range args {
		if !strings.HasSuffix(arg, program.Field.String()) {
			arg += program.Field.String()
		}
		l, err := program.ParseLiteral(arg)
		if err != nil {
			return nil, err
		}
		out[i] = l.Field()
	}
	return out, nil
}

func runHash(cmd *cobra.Command, args []string) error {
	p, err := poseidon.New(rate)
	if err != nil {
		return err
	}
	input, err := parseFields(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), program.NewField(p.Hash(input)))
	return nil
}
