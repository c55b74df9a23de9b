package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"happy/internal/app"
	"happy/internal/probe"
	"happy/internal/report"
)

var version = "dev"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "happy [flags] hostname...",
	Short: "A TCP happy eyeballs probing tool",
	Long: `A TCP happy eyeballs probing tool.

  Establishes non-blocking TCP connections concurrently to every
  resolved endpoint of the given hostnames and measures how long the
  handshakes take, over several rounds. Useful to determine whether
  happy eyeball applications will use IPv4 or IPv6 when both are
  available.

  Examples:
    happy www.example.org
    happy -p 80 -p 443 -q 5 www.example.org
    happy -s www.example.org other.example.net
    happy -m -f hosts.txt >> results.log`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringArrayP("port", "p", []string{"80"}, "port or service name to probe (repeatable)")
	rootCmd.Flags().IntP("queries", "q", 3, "number of measurement rounds")
	rootCmd.Flags().Int64P("timeout", "t", 2000, "per-attempt timeout in milliseconds (0 waits forever)")
	rootCmd.Flags().Int64P("delay", "d", 25, "delay between connection launches in milliseconds")
	rootCmd.Flags().BoolP("sort", "s", false, "sort each target's endpoints by mean latency")
	rootCmd.Flags().BoolP("machine", "m", false, "machine-readable output")
	rootCmd.Flags().StringP("file", "f", "", "read hostnames from file, one per line (- for stdin)")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ports, _ := cmd.Flags().GetStringArray("port")
	queries, _ := cmd.Flags().GetInt("queries")
	timeoutMS, _ := cmd.Flags().GetInt64("timeout")
	delayMS, _ := cmd.Flags().GetInt64("delay")
	sortFlag, _ := cmd.Flags().GetBool("sort")
	machine, _ := cmd.Flags().GetBool("machine")
	file, _ := cmd.Flags().GetString("file")
	logLevel, _ := cmd.Flags().GetString("log-level")

	a, err := app.New(app.Options{
		Ports:   ports,
		Queries: queries,
		Timeout: time.Duration(timeoutMS) * time.Millisecond,
		Delay:   time.Duration(delayMS) * time.Millisecond,
		Sort:    sortFlag,
		Machine: machine,
	}, logLevel)
	if err != nil {
		return err
	}

	hosts := args
	if file != "" {
		imported, err := importHosts(file)
		if err != nil {
			return err
		}
		hosts = append(imported, args...)
	}
	if len(hosts) == 0 {
		return nil
	}

	var specs []probe.Spec
	for _, host := range hosts {
		for _, port := range ports {
			specs = append(specs, probe.Spec{Host: host, Port: port})
		}
	}

	reg := probe.ResolveAll(ctx, specs, queries, a.Log)

	if err := probe.Run(reg, a.ProbeOptions(), a.Log); err != nil {
		return err
	}

	if a.Options.Sort {
		probe.Rank(reg)
	}

	out := os.Stdout
	report.Lock(out, a.Log)
	defer report.Unlock(out, a.Log)
	if a.Options.Machine {
		return report.RenderMachine(out, reg, time.Now())
	}
	return report.RenderHuman(out, reg)
}
