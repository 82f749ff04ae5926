package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/spf13/cobra"
)

func poolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Work with savings pools",
	}
	cmd.AddCommand(
		poolListCmd(),
		poolShowCmd(),
		poolCreateCmd(),
		poolMembersCmd(),
		poolContributeCmd(),
		poolProposeCmd(),
		poolVoteCmd(),
	)
	return cmd
}

func poolListCmd() *cobra.Command {
	var page models.PaginationParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the pools you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := rt.Services.Pools.ListPools(cmd.Context(), page)
			if err != nil {
				return err
			}
			var pools []models.Pool
			if resp.Data != nil {
				pools = *resp.Data
			}
			writePools(cmd.OutOrStdout(), pools)
			if resp.Meta != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\npage %d, %d pools in total\n", resp.Meta.Page, resp.Meta.Total)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&page.Limit, "limit", models.DefaultPageLimit, "pools per page")
	cmd.Flags().StringVar(&page.SortBy, "sort", "created_at", "sort column")
	cmd.Flags().StringVar(&page.SortOrder, "order", models.SortDesc, "asc or desc")
	return cmd
}

func poolShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <pool-id>",
		Short: "Show one pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.Services.Pools.GetPool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writePool(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func poolCreateCmd() *cobra.Command {
	var (
		in          models.CreatePoolInput
		poolType    string
		description string
		maxMembers  int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pool and join it as its administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = models.PoolType(poolType)
			if description != "" {
				in.Description = &description
			}
			if maxMembers > 0 {
				in.MaxMembers = &maxMembers
			}

			p, err := rt.Services.Pools.CreatePool(cmd.Context(), in)
			if err != nil && p.ID == "" {
				return err
			}
			writePool(cmd.OutOrStdout(), p)
			return err
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "pool name")
	cmd.Flags().StringVar(&poolType, "type", string(models.PoolTypeStokvel), "pool type")
	cmd.Flags().StringVar(&description, "description", "", "short description")
	cmd.Flags().Float64Var(&in.ContributionAmount, "amount", 0, "contribution per cycle")
	cmd.Flags().StringVar(&in.ContributionSchedule, "schedule", "monthly", "contribution schedule")
	cmd.Flags().IntVar(&maxMembers, "max-members", 0, "member limit, 0 for none")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func poolMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members <pool-id>",
		Short: "List the members of a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := rt.Services.Pools.ListMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "POSITION\tUSER\tROLE\tSTATUS\tCONTRIBUTED\tPAYMENT")
			for _, m := range members {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\tR %.2f\t%s\n",
					m.Position, m.UserID, m.Role, m.Status, m.TotalContributed, m.PaymentStatus)
			}
			return tw.Flush()
		},
	}
}

func poolContributeCmd() *cobra.Command {
	var (
		in        models.CreateTransactionInput
		reference string
	)

	cmd := &cobra.Command{
		Use:   "contribute <pool-id>",
		Short: "Record a contribution to a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.PoolID = args[0]
			in.Type = models.TransactionContribution
			if reference != "" {
				in.Reference = &reference
			}

			tx, err := rt.Services.Pools.RecordTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %.2f (%s), transaction %s.\n", tx.Currency, tx.Amount, tx.Status, tx.ID)
			return nil
		},
	}
	cmd.Flags().Float64Var(&in.Amount, "amount", 0, "amount paid")
	cmd.Flags().StringVar(&in.Currency, "currency", "", "currency, ZAR when empty")
	cmd.Flags().StringVar(&reference, "reference", "", "payment reference")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func poolProposeCmd() *cobra.Command {
	var (
		in           models.CreateProposalInput
		proposalType string
	)

	cmd := &cobra.Command{
		Use:   "propose <pool-id>",
		Short: "Put a proposal to the pool's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.PoolID = args[0]
			in.Type = models.ProposalType(proposalType)

			p, err := rt.Services.Pools.CreateProposal(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Proposal %s is open until %s.\n", p.ID, p.Deadline.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "proposal title")
	cmd.Flags().StringVar(&in.Description, "description", "", "proposal text")
	cmd.Flags().StringVar(&proposalType, "type", string(models.ProposalOther), "proposal type")
	cmd.Flags().StringVar(&in.Deadline, "deadline", "", "voting deadline, RFC 3339")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func poolVoteCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "vote <proposal-id> <yes|no|abstain>",
		Short: "Vote on a proposal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.VoteInput{ProposalID: args[0], Vote: models.VoteChoice(args[1])}
			if comment != "" {
				in.Comment = &comment
			}
			if _, err := rt.Services.Pools.CastVote(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Voted %s.\n", in.Vote)
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "optional comment")
	return cmd
}

func writePools(w io.Writer, pools []models.Pool) {
	if len(pools) == 0 {
		fmt.Fprintln(w, "You are not a member of any pool yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCONTRIBUTION\tMEMBERS\tSTATUS")
	for _, p := range pools {
		members := fmt.Sprintf("%d", p.TotalMembers)
		if p.MaxMembers != nil {
			members = fmt.Sprintf("%d/%d", p.TotalMembers, *p.MaxMembers)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\tR %.2f %s\t%s\t%s\n",
			p.ID, p.Name, p.Type, p.ContributionAmount, p.ContributionSchedule, members, p.Status)
	}
	_ = tw.Flush()
}

func writePool(w io.Writer, p models.Pool) {
	description := "-"
	if p.Description != nil && *p.Description != "" {
		description = *p.Description
	}
	rows := [][2]string{
		{"ID:", p.ID},
		{"Name:", p.Name},
		{"Description:", description},
		{"Type:", string(p.Type)},
		{"Contribution:", fmt.Sprintf("R %.2f %s", p.ContributionAmount, p.ContributionSchedule)},
		{"Members:", fmt.Sprintf("%d", p.TotalMembers)},
		{"Status:", fmt.Sprintf("%s (%s)", p.Status, p.HealthStatus)},
		{"Cycle:", fmt.Sprintf("%d", p.CurrentCycle)},
		{"Pool value:", fmt.Sprintf("R %.2f", p.TotalPoolValue)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-14s %s\n", r[0], r[1])
	}
}
