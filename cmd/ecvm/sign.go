package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolyhedraZK/ecvm/account"
)

var seedText string

func initSignCmd(rootCmd *cobra.Command) {
	signCmd := &cobra.Command{
		Use:   "sign --seed <field> <field>...",
		Short: "sign field elements and verify the signature",
		RunE:  runSign,
	}
	signCmd.Flags().StringVar(&seedText, "seed", "", "account seed")
	_ = signCmd.MarkFlagRequired("seed")
	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	seed, err := parseFields([]string{seedText})
	if err != nil {
		return err
	}
	message, err := parseFields(args)
	if err != nil {
		return err
	}
	pk := account.FromSeed(seed[0])
	sig, err := account.Sign(pk, message, rand.Reader)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "address:  ", pk.Address())
	fmt.Fprintln(out, "challenge:", sig.Challenge())
	fmt.Fprintln(out, "response: ", sig.Response())
	fmt.Fprintln(out, "verified: ", sig.Verify(pk.Address(), message))
	return nil
}
