package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
)

func (cli *commandLine) stats(ctx context.Context) error {
	stats, err := cli.collectionsSvc.Stats(ctx)
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return cli.print(stats,
		[]string{"EXPECTED", "COLLECTED", "OVERDUE", "RATE", "ON TIME", "OVERDUE CUSTOMERS"},
		[][]string{{
			amount(stats.TotalExpected),
			amount(stats.TotalCollected),
			amount(stats.TotalOverdue),
			fmt.Sprintf("%.1f%%", stats.CollectionRate),
			strconv.Itoa(stats.OnTimeCount),
			strconv.Itoa(stats.OverdueCount),
		}},
	)
}

func (cli *commandLine) groups(ctx context.Context) error {
	summaries, err := cli.collectionsSvc.GroupSummaries(ctx)
	if err != nil {
		return errors.Wrap(err, "computing group summaries")
	}
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.GroupName,
			strconv.Itoa(s.CustomerCount),
			amount(s.Expected),
			amount(s.Collected),
			amount(s.Overdue),
			fmt.Sprintf("%.1f%%", s.CollectionRate),
		}
	}
	return cli.print(summaries, []string{"GROUP", "CUSTOMERS", "EXPECTED", "COLLECTED", "OVERDUE", "RATE"}, rows)
}

func (cli *commandLine) defaulters(ctx context.Context) error {
	report, err := cli.collectionsSvc.Reports(ctx, core.NowFunc())
	if err != nil {
		return errors.Wrap(err, "computing reports")
	}
	rows := make([][]string, len(report.Defaulters))
	for i, d := range report.Defaulters {
		days := "-"
		if d.OverdueDays.Valid {
			days = strconv.Itoa(d.OverdueDays.Int)
		}
		rows[i] = []string{d.Customer.Name, d.Customer.CustomerID, d.GroupName, amount(d.Customer.TotalOverdue), days}
	}
	return cli.print(report.Defaulters, []string{"NAME", "ID", "GROUP", "OVERDUE", "DAYS"}, rows)
}

func (cli *commandLine) remind(ctx context.Context, groupID string) error {
	n, err := cli.collectionsSvc.SendReminders(ctx, groupID)
	if err != nil {
		return errors.Wrap(err, "sending reminders")
	}
	_, err = fmt.Fprintf(cli.out, "%d reminder(s) sent\n", n)
	return err
}

func (cli *commandLine) links(ctx context.Context, filter paymentlink.Filter) error {
	links, err := cli.linkSvc.Query(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "querying payment links")
	}
	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = []string{l.ID, l.Title, amount(l.Amount), l.Status, strconv.Itoa(l.Paid), l.ShortURL}
	}
	return cli.print(links, []string{"ID", "TITLE", "AMOUNT", "STATUS", "PAID", "URL"}, rows)
}

func (cli *commandLine) find(ctx context.Context, query string) error {
	customers, err := cli.collectionsSvc.SuggestCustomers(ctx, query)
	if err != nil {
		return errors.Wrap(err, "suggesting customers")
	}
	rows := make([][]string, len(customers))
	for i, c := range customers {
		rows[i] = []string{c.ID, c.Name, c.CustomerID, c.Status, amount(c.TotalOverdue)}
	}
	return cli.print(customers, []string{"ID", "NAME", "CUSTOMER ID", "STATUS", "OVERDUE"}, rows)
}
