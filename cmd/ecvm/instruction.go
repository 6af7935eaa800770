package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolyhedraZK/ecvm/vm"
)

func initInstructionCmds(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "parse <instruction>",
		Short: "parse an instruction, print its canonical text and binary encoding",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "decode <hex>",
		Short: "decode a binary instruction",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecode,
	})
}

func runParse(cmd *cobra.Command, args []string) error {
	instr, err := vm.ParseInstruction(args[0])
	if err != nil {
		return err
	}
	data, err := vm.EncodeInstruction(instr)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), instr.String())
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := hex.DecodeString(args[0])
	if err != nil {
		return err
	}
	instr, err := vm.DecodeInstruction(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), instr.String())
	return nil
}
