// Command reluverify is the CLI collaborator described in the package
// layout: it drives relucore's DPLL(T) loop over a formula file or a
// local-robustness query and reports SAT/UNSAT/UNKNOWN via exit code.
package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	relucore "github.com/songheon2/Ai-verification"
	"github.com/songheon2/Ai-verification/internal/config"
	"github.com/songheon2/Ai-verification/internal/logging"
	"github.com/songheon2/Ai-verification/netenc"
	"github.com/songheon2/Ai-verification/parse"
)

const (
	exitSAT      = 0
	exitUNSAT    = 10
	exitUnknown  = 20
	exitBadInput = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var devLog bool
	var verbose bool

	root := &cobra.Command{
		Use:   "reluverify",
		Short: "Decide propositional formulas over linear arithmetic and ReLU constraints",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every DPLL decision, Simplex pivot, ReLUplex case-split and blocking clause")
	root.PersistentFlags().BoolVar(&devLog, "dev-log", false, "with -v, use human-readable logging instead of JSON")

	exitCode := exitSAT
	check := &cobra.Command{
		Use:   "check [formula-file]",
		Short: "Decide a formula written in the atom-expression grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runCheck(args[0], configPath, devLog, verbose)
			exitCode = code
			return err
		},
	}

	var netPath string
	robust := &cobra.Command{
		Use:   "robust",
		Short: "Check local robustness of a network around a center point",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runRobust(netPath, configPath, devLog, verbose)
			exitCode = code
			return err
		},
	}
	robust.Flags().StringVar(&netPath, "network", "", "path to a YAML network+query spec")
	robust.MarkFlagRequired("network")

	root.AddCommand(check, robust)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "reluverify:", err)
		if exitCode == exitSAT {
			exitCode = exitBadInput
		}
	}
	return exitCode
}

// newLogger builds the relucore.Logger the solver reports its
// internal events to. Logging is opt-in: without -v the driver runs
// under relucore.NoopLogger so a plain `check`/`robust` run pays
// nothing for tracing it never asked for.
func newLogger(verbose, devLog bool) relucore.Logger {
	if !verbose {
		return logging.NewNoop()
	}
	l, err := logging.New(devLog)
	if err != nil {
		return logging.NewNoop()
	}
	return l
}

func runCheck(path, configPath string, devLog, verbose bool) (int, error) {
	logger := newLogger(verbose, devLog)

	cfg, err := config.Load(configPath)
	if err != nil {
		return exitBadInput, err
	}
	relucore.Epsilon = relucore.RatFromFloat(cfg.Epsilon)

	data, err := os.ReadFile(path)
	if err != nil {
		return exitBadInput, err
	}

	atoms := relucore.NewAtomTable()
	formula, err := parse.Parse(string(data), atoms)
	if err != nil {
		return exitBadInput, err
	}

	res := relucore.Solve(formula, atoms, driverConfigFrom(cfg, logger))
	return report(res, atoms)
}

type networkFile struct {
	Network struct {
		InputSize int `yaml:"inputSize"`
		Layers    []struct {
			Weights [][]float64 `yaml:"weights"`
			Biases  []float64   `yaml:"biases"`
			ReLU    bool        `yaml:"relu"`
		} `yaml:"layers"`
	} `yaml:"network"`
	Query struct {
		Center    []float64 `yaml:"center"`
		Epsilon   float64   `yaml:"epsilon"`
		Clamp01   bool      `yaml:"clamp01"`
		Threshold float64   `yaml:"threshold"`
	} `yaml:"query"`
}

func runRobust(path, configPath string, devLog, verbose bool) (int, error) {
	logger := newLogger(verbose, devLog)

	cfg, err := config.Load(configPath)
	if err != nil {
		return exitBadInput, err
	}
	relucore.Epsilon = relucore.RatFromFloat(cfg.Epsilon)

	data, err := os.ReadFile(path)
	if err != nil {
		return exitBadInput, err
	}
	var spec networkFile
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return exitBadInput, err
	}

	net := netenc.NetworkSpec{InputSize: spec.Network.InputSize}
	for _, l := range spec.Network.Layers {
		net.Layers = append(net.Layers, netenc.Layer{Weights: l.Weights, Biases: l.Biases, ReLU: l.ReLU})
	}

	atoms := relucore.NewAtomTable()
	formula := netenc.BuildCounterexampleFormula(net, netenc.LocalRobustnessQuery{
		Center:    spec.Query.Center,
		Epsilon:   spec.Query.Epsilon,
		Clamp01:   spec.Query.Clamp01,
		Threshold: spec.Query.Threshold,
	}, atoms)

	res := relucore.Solve(formula, atoms, driverConfigFrom(cfg, logger))
	return report(res, atoms)
}

func driverConfigFrom(cfg config.Config, logger relucore.Logger) relucore.DriverConfig {
	d := relucore.DefaultDriverConfig()
	d.Logger = logger
	if cfg.PivotBudgetFactor != 0 {
		d.ReluplexStepBudget = cfg.PivotBudgetFactor
	}
	if cfg.MaxDPLLTRounds != 0 {
		d.MaxDPLLTRounds = cfg.MaxDPLLTRounds
	}
	if cfg.MaxReluplexRecursion != 0 {
		d.MaxCaseSplitRecursion = cfg.MaxReluplexRecursion
	}
	return d
}

func report(res relucore.Result, atoms *relucore.AtomTable) (int, error) {
	switch res.Kind {
	case relucore.ResultSAT:
		fmt.Println("SAT")
		for v := relucore.VarID(0); int(v) < atoms.NumVars(); v++ {
			val, ok := res.Model[v]
			if !ok {
				continue
			}
			d := decimal.NewFromFloat(val.Float64())
			fmt.Printf("  %s = %s\n", atoms.VarName(v), d.String())
		}
		return exitSAT, nil
	case relucore.ResultUNSAT:
		fmt.Println("UNSAT")
		return exitUNSAT, nil
	default:
		fmt.Println("UNKNOWN:", res.Reason)
		return exitUnknown, nil
	}
}
