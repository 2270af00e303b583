package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graeme-hill/combparse-go/lib"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "gparse",
		Short:         "Tokenize and parse programs with a grammar specification",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	defaults := lib.DefaultConfig()
	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./gparse.yaml)")
	flags.String("grammar", "", "grammar specification file (default: built-in grammar)")
	flags.String("grammar-name", "", "name of a grammar kept in the grammar store")
	flags.String("dsn", "", "PostgreSQL connection string of the grammar store")
	flags.Bool("lenient-grammar", false, "drop grammar lines without ':' instead of failing")
	flags.Int("max-steps", defaults.Limits.MaxSteps, "maximum rules entered per parse (0 = unlimited)")
	flags.Int("max-depth", defaults.Limits.MaxDepth, "maximum rule nesting per parse (0 = unlimited)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	root.AddCommand(
		newTokenizeCommand(),
		newParseCommand(),
		newCheckCommand(),
		newGrammarCommand(),
	)
	return root
}

func newEngine(cmd *cobra.Command) (*lib.Engine, string, error) {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, "", err
	}
	grammar, err := resolveGrammar(cmd.Context(), cfg)
	if err != nil {
		return nil, "", err
	}
	engine, err := lib.NewEngine(cfg.Engine)
	if err != nil {
		return nil, "", err
	}
	return engine, grammar, nil
}

func newTokenizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the tokens of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, grammar, err := newEngine(cmd)
			if err != nil {
				return err
			}
			source, err := readSource(args[0])
			if err != nil {
				return err
			}

			tokens, err := engine.Tokenize(grammar, source)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(out, "%s\t%s\t%q\n", tok.Location, tok.Type, tok.Value)
			}
			return nil
		},
	}
}

func newParseCommand() *cobra.Command {
	var rule string
	var simplify bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a program and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, grammar, err := newEngine(cmd)
			if err != nil {
				return err
			}
			source, err := readSource(args[0])
			if err != nil {
				return err
			}

			node, err := engine.ParseRule(grammar, rule, source)
			if err != nil {
				var parseErr *lib.ParseError
				if errors.As(err, &parseErr) && parseErr.Trace != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), parseErr.Trace)
				}
				return err
			}
			if simplify {
				node = lib.Simplify(node)
			}
			return lib.Pretty(cmd.OutOrStdout(), node)
		},
	}
	cmd.Flags().StringVar(&rule, "rule", "SOF", "production to parse the program as")
	cmd.Flags().BoolVar(&simplify, "simplify", true, "collapse single-child nodes")
	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Parse every program in a directory and report failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, grammar, err := newEngine(cmd)
			if err != nil {
				return err
			}

			results, err := engine.ParseDir(grammar, args[0])
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(out, "FAIL\t%s\t%v\n", res.Path, res.Err)
					continue
				}
				fmt.Fprintf(out, "ok\t%s\n", res.Path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d programs failed to parse", failed, len(results))
			}
			return nil
		},
	}
}

func newGrammarCommand() *cobra.Command {
	grammar := &cobra.Command{
		Use:   "grammar",
		Short: "Manage grammars in the PostgreSQL grammar store",
	}

	openStore := func(cmd *cobra.Command) (*lib.GrammarStore, error) {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return nil, err
		}
		if cfg.DSN == "" {
			return nil, errors.New("--dsn is required")
		}
		return lib.OpenGrammarStore(cmd.Context(), cfg.DSN)
	}

	push := &cobra.Command{
		Use:   "push <name> <file>",
		Short: "Validate a grammar file and store it under name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := lib.ReadGrammarFile(args[1])
			if err != nil {
				return err
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			return store.Put(cmd.Context(), args[0], body)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			body, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	grammar.AddCommand(push, show, list)
	return grammar
}
