package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
)

var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) } // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out            io.Writer
	collectionsSvc *collections.Service
	linkSvc        *paymentlink.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  stats                              - collection stats")
	fmt.Fprintln(cli.out, "  groups                             - collection summary per group")
	fmt.Fprintln(cli.out, "  defaulters                         - customers with an overdue balance")
	fmt.Fprintln(cli.out, "  remind [-group ID]                 - email payment reminders to overdue customers")
	fmt.Fprintln(cli.out, "  links [-status STATUS] [-search Q] - list payment links")
	fmt.Fprintln(cli.out, "  find -q NAME                       - suggest customers matching a name")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	remindCmd := cli.flagSet("remind")
	remindGroup := remindCmd.String("group", "", "Only remind the customers of this group.")

	linksCmd := cli.flagSet("links")
	linksStatus := linksCmd.String("status", "", "Filter by status: all, active, expired or deactivated.")
	linksSearch := linksCmd.String("search", "", "Search the title, ID or short URL.")

	findCmd := cli.flagSet("find")
	findQuery := findCmd.String("q", "", "The customer's name, typos allowed.")

	switch args[1] {
	case "stats":
		return cli.stats(ctx)
	case "groups":
		return cli.groups(ctx)
	case "defaulters":
		return cli.defaulters(ctx)
	case "remind":
		if err := remindCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.remind(ctx, *remindGroup)
	case "links":
		if err := linksCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.links(ctx, paymentlink.Filter{Status: *linksStatus, Search: *linksSearch})
	case "find":
		if err := findCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if core.CleanString(*findQuery) == "" {
			findCmd.Usage()
			return errHelp
		}
		return cli.find(ctx, *findQuery)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// print writes v as JSON, or as an aligned table when stdout is a terminal.
func (cli *commandLine) print(v interface{}, header []string, rows [][]string) error {
	if !isTerminalFunc() {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	writeRow := func(cols []string) {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, c)
		}
		fmt.Fprintln(w)
	}
	writeRow(header)
	for _, r := range rows {
		writeRow(r)
	}
	return w.Flush()
}

func amount(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
