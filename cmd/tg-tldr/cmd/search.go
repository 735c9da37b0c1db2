package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
	"github.com/Shadow-sword/tg-tldr/internal/biz/usecase"
	"github.com/Shadow-sword/tg-tldr/internal/conf"
	"github.com/Shadow-sword/tg-tldr/internal/data"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	group      string
	searchDate string
	dateFrom   string
	dateTo     string
	limit      int
	jsonOut    bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search recorded messages",
		Long: `Search recorded messages with full-text term matching.

Examples:
  tg-tldr search "性能优化"
  tg-tldr search Python -g 技术群 -n 10
  tg-tldr search deploy --from 2026-08-01 --to 2026-08-15 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.group, "group", "g", "", "Group name or ID")
	cmd.Flags().StringVarP(&opts.searchDate, "date", "d", "", "Search a single date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.dateFrom, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.dateTo, "to", "", "End date (YYYY-MM-DD), inclusive")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 50, "Maximum number of results")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output results as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, keyword string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter := repo.SearchFilter{Limit: opts.limit}

	if opts.group != "" {
		groupID, err := resolveGroup(cfg, opts.group)
		if err != nil {
			return err
		}
		filter.GroupID = &groupID
	}

	if opts.searchDate != "" {
		day, err := parseDate(opts.searchDate)
		if err != nil {
			return err
		}
		from, to := domain.DayStart(day), domain.DayEnd(day)
		filter.From, filter.To = &from, &to
	} else {
		if opts.dateFrom != "" {
			day, err := parseDate(opts.dateFrom)
			if err != nil {
				return err
			}
			from := domain.DayStart(day)
			filter.From = &from
		}
		if opts.dateTo != "" {
			day, err := parseDate(opts.dateTo)
			if err != nil {
				return err
			}
			to := domain.DayEnd(day)
			filter.To = &to
		}
	}

	repos, err := data.NewRepositories(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repos.Close()

	searchUC := usecase.NewSearchUsecase(repos.Message)
	results, total, err := searchUC.Search(cmd.Context(), keyword, filter)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		out, err := usecase.FormatResultsJSON(results, total)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println(usecase.FormatResults(results, total))
	return nil
}

// resolveGroup accepts either a configured group name or a raw chat id.
func resolveGroup(cfg *conf.Config, group string) (int64, error) {
	if id, err := strconv.ParseInt(group, 10, 64); err == nil {
		return id, nil
	}
	if g := cfg.GroupByName(group); g != nil {
		return g.ID, nil
	}
	return 0, fmt.Errorf("unknown group: %s", group)
}

func parseDate(s string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return day, nil
}
