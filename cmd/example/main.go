// Package main is a small demonstration CLI over the relational logic
// engine: it runs the bundled example relations and prints their answers.
// It is deliberately thin — a way to see the engine work from a shell, not
// a debugger or REPL.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mkanren/vulcango/pkg/minikanren"
)

func main() {
	var debug bool

	root := &cobra.Command{
		Use:   "vulcango",
		Short: "vulcango",
		Long:  "vulcango runs bundled relational-logic demonstrations and prints their answers.",
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable trace-level query logging")

	root.AddCommand(
		newChoicesCmd(&debug),
		newAppendCmd(&debug),
		newSendMoreMoneyCmd(&debug),
		newQueensCmd(&debug),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loggerFor(debug bool) hclog.Logger {
	level := hclog.Info
	if debug {
		level = hclog.Trace
	}
	return hclog.New(&hclog.LoggerOptions{Name: "vulcango", Level: level})
}

func newChoicesCmd(debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "choices",
		Short: "q == 1, q == 2, or q == 3",
		RunE: func(cmd *cobra.Command, args []string) error {
			iter := minikanren.Query([]string{"q"}, func(vars ...minikanren.Term) minikanren.Goal {
				q := vars[0]
				return minikanren.Disj(
					minikanren.Eq(q, minikanren.NewInt(1)),
					minikanren.Eq(q, minikanren.NewInt(2)),
					minikanren.Eq(q, minikanren.NewInt(3)),
				)
			}, minikanren.WithLogger(loggerFor(*debug)))
			answers, err := iter.All(0)
			if err != nil {
				return err
			}
			for _, a := range answers {
				fmt.Printf("q = %s\n", a.Values["q"].String())
			}
			return nil
		},
	}
}

func newAppendCmd(debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "append",
		Short: "append([1,2], [3,4], q)",
		RunE: func(cmd *cobra.Command, args []string) error {
			one, two, three, four := minikanren.NewInt(1), minikanren.NewInt(2), minikanren.NewInt(3), minikanren.NewInt(4)
			iter := minikanren.Query([]string{"q"}, func(vars ...minikanren.Term) minikanren.Goal {
				q := vars[0]
				return minikanren.Appendo(minikanren.List(nil, one, two), minikanren.List(nil, three, four), q)
			}, minikanren.WithLogger(loggerFor(*debug)))
			answers, err := iter.All(0)
			if err != nil {
				return err
			}
			for _, a := range answers {
				fmt.Printf("q = %s\n", a.Values["q"].String())
			}
			return nil
		},
	}
}

func newSendMoreMoneyCmd(debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "send-more-money",
		Short: "classic SEND + MORE = MONEY cryptarithm over CLP(FD)",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := solveSendMoreMoney(loggerFor(*debug))
			if err != nil {
				return err
			}
			for _, a := range answers {
				fmt.Printf("s=%s e=%s n=%s d=%s m=%s o=%s r=%s y=%s\n",
					a.Values["s"], a.Values["e"], a.Values["n"], a.Values["d"],
					a.Values["m"], a.Values["o"], a.Values["r"], a.Values["y"])
			}
			return nil
		},
	}
}

func newQueensCmd(debug *bool) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "queens",
		Short: "N-queens over CLP(FD)",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := solveQueens(n, loggerFor(*debug))
			if err != nil {
				return err
			}
			for _, a := range answers {
				fmt.Println(a)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 6, "board size")
	return cmd
}
