package command

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/baechuer/expense-web/internal/domain"
)

const dateLayout = "2006-01-02"

func (a *app) fundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "funds",
		Short:       "list monetary funds",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotAuth: ""},
		RunE: traced(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			funds, err := a.client.Funds(ctx)
			if err != nil {
				return fmt.Errorf("funds: %w", err)
			}

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNOMBRE\tSALDO")
			for _, f := range funds {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\n", f.ID, f.Name, f.CurrentBalance)
			}
			return tw.Flush()
		}),
	}
}

type movementsFlags struct {
	from string
	to   string
	all  bool
}

func (a *app) movementsCmd() *cobra.Command {
	var flags movementsFlags
	cmd := &cobra.Command{
		Use:         "movements",
		Short:       "list deposits and expenses over a date range",
		Long:        `movements lists your own movements; --all lists every user's and needs the Admin role.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotAuth: ""},
		RunE: traced(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if flags.all {
				if err := a.require(cmd.CommandPath()+" --all", domain.RoleAdmin); err != nil {
					return err
				}
			}

			now := time.Now()
			rng, err := flags.dateRange(now)
			if err != nil {
				return err
			}

			var list []domain.Movement
			if flags.all {
				list, err = a.client.AllMovements(ctx, rng)
			} else {
				list, err = a.client.UserMovements(ctx, rng)
			}
			if err != nil {
				return fmt.Errorf("movements: %w", err)
			}
			return printMovements(cmd.OutOrStdout(), list, flags.all)
		}),
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.from, "from", "", "start date, YYYY-MM-DD (default first day of month)")
	fs.StringVar(&flags.to, "to", "", "end date, YYYY-MM-DD (default today)")
	fs.BoolVar(&flags.all, "all", false, "list movements of every user (Admin)")
	return cmd
}

func (f movementsFlags) dateRange(now time.Time) (domain.DateRange, error) {
	rng := domain.CurrentMonthToDate(now)
	if f.from != "" {
		t, err := time.ParseInLocation(dateLayout, f.from, now.Location())
		if err != nil {
			return rng, fmt.Errorf("invalid --from: %w", err)
		}
		rng.Start = t
	}
	if f.to != "" {
		t, err := time.ParseInLocation(dateLayout, f.to, now.Location())
		if err != nil {
			return rng, fmt.Errorf("invalid --to: %w", err)
		}
		rng.End = t
	}
	if p := domain.CheckRange(rng, now); !p.CanSubmit {
		return rng, fmt.Errorf("%w: %s", domain.ErrInvalidRange, p.Reason)
	}
	return rng, nil
}

func printMovements(w io.Writer, list []domain.Movement, withUser bool) error {
	tw := table(w)
	if withUser {
		fmt.Fprint(tw, "USUARIO\t")
	}
	fmt.Fprintln(tw, "FECHA\tTIPO\tFONDO\tDETALLE\tMONTO")

	var deposits, expenses float64
	for _, m := range list {
		if withUser {
			fmt.Fprintf(tw, "%s\t", m.User)
		}
		detail := ""
		switch {
		case m.ExpenseType != nil:
			detail = *m.ExpenseType
		case m.Commerce != nil:
			detail = *m.Commerce
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n", m.Date.Format("02/01/2006"), m.MovementType, m.Fund, detail, m.Amount)

		switch m.MovementType {
		case domain.MovementDeposit:
			deposits += m.Amount
		case domain.MovementExpense:
			expenses += m.Amount
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nDepósitos: %.2f  Gastos: %.2f  Movimientos: %d\n", deposits, expenses, len(list))
	return err
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
