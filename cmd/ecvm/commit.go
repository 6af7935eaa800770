package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolyhedraZK/ecvm/program"
	"github.com/PolyhedraZK/ecvm/vm"
)

var randomizerText string

func initCommitCmds(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "commit <opcode> <input-literal> <randomizer-literal>",
		Short: "evaluate a commit instruction natively",
		Args:  cobra.ExactArgs(3),
		RunE:  runCommit,
	})
	constraintsCmd := &cobra.Command{
		Use:   "constraints <opcode> <input-literal> [--randomizer <scalar>]",
		Short: "count the R1CS constraints of a commit instruction",
		Args:  cobra.ExactArgs(2),
		RunE:  runConstraints,
	}
	constraintsCmd.Flags().StringVar(&randomizerText, "randomizer", "0scalar", "randomizer literal")
	rootCmd.AddCommand(constraintsCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	input, err := program.ParseLiteral(args[1])
	if err != nil {
		return err
	}
	randomizer, err := program.ParseLiteral(args[2])
	if err != nil {
		return err
	}
	instr, err := vm.ParseInstruction(args[0] + " r0 r1 into r2")
	if err != nil {
		return err
	}

	stack := vm.NewStack()
	r0, r1, r2 := program.NewRegister(0), program.NewRegister(1), program.NewRegister(2)
	if err := stack.Store(r0, input); err != nil {
		return err
	}
	if err := stack.Store(r1, randomizer); err != nil {
		return err
	}
	if err := instr.Evaluate(stack); err != nil {
		return err
	}
	out, err := stack.Load(program.RegisterOperand(r2))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runConstraints(cmd *cobra.Command, args []string) error {
	input, err := program.ParseLiteral(args[1])
	if err != nil {
		return err
	}
	randomizer, err := program.ParseLiteral(randomizerText)
	if err != nil {
		return err
	}
	ccs, err := vm.CompileCommit(vm.Opcode(args[0]), input, randomizer)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ccs.GetNbConstraints())
	return nil
}
