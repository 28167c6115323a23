package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/review"
	"github.com/rcliao/recall/internal/store"
)

func init() {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Spaced-repetition review",
	}

	dueCmd := &cobra.Command{
		Use:   "due",
		Short: "List entries due for review",
		Run:   runReviewDue,
	}
	dueCmd.Flags().Bool("include-graduated", false, "Also list graduated entries")
	dueCmd.Flags().StringP("category", "t", "", "Filter by category ID")
	dueCmd.Flags().Bool("fav", false, "Only favorites")
	dueCmd.Flags().Bool("count", false, "Only print the number of entries")

	markCmd := &cobra.Command{
		Use:   "mark <id> <got-it|again>",
		Short: "Record a review outcome",
		Long:  "Record a review outcome. got-it moves the entry along the 1/7/16/35 day schedule; again brings it back tomorrow.",
		Args:  cobra.ExactArgs(2),
		Run:   runReviewMark,
	}

	reviewCmd.AddCommand(dueCmd, markCmd)
	RootCmd.AddCommand(reviewCmd)
}

type dueResult struct {
	Now     string        `json:"now"`
	Count   int           `json:"count"`
	Entries []model.Entry `json:"entries"`
}

func runReviewDue(cmd *cobra.Command, args []string) {
	includeGraduated, _ := cmd.Flags().GetBool("include-graduated")
	category, _ := cmd.Flags().GetString("category")
	fav, _ := cmd.Flags().GetBool("fav")
	countOnly, _ := cmd.Flags().GetBool("count")

	e := openEnv()
	defer e.Close()

	all, err := e.store.All(cmd.Context())
	if err != nil {
		exitErr("review due", err)
	}

	queue := review.ReviewableEntries(all, e.now, review.QueueFilter{
		IncludeGraduated: includeGraduated,
		CategoryID:       category,
		FavoritesOnly:    fav,
	})
	review.SortForSession(queue)
	logger.Debug("review queue built", "total", len(all), "queued", len(queue))

	if countOnly {
		fmt.Println(len(queue))
		return
	}
	if queue == nil {
		queue = []model.Entry{}
	}
	printJSON(dueResult{Now: e.now.Format(time.RFC3339), Count: len(queue), Entries: queue})
}

func parseOutcome(s string) (model.ReviewOutcome, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "-")) {
	case "got-it", "gotit", "yes", "y":
		return model.GotIt, nil
	case "again", "review-again", "no", "n":
		return model.ReviewAgain, nil
	}
	return "", fmt.Errorf("%w: %q (use got-it or again)", review.ErrInvalidOutcome, s)
}

func runReviewMark(cmd *cobra.Command, args []string) {
	outcome, err := parseOutcome(args[1])
	if err != nil {
		exitErr("review mark", err)
	}

	e := openEnv()
	defer e.Close()

	entry, err := e.store.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("review mark", err)
	}

	if entry.IsGraduated {
		if _, err := e.sched.ReviewGraduated(*entry, outcome); err != nil {
			exitErr("review mark", err)
		}
		logger.Debug("graduated entry re-reviewed", "id", entry.ID, "outcome", outcome)
		printJSON(entry)
		return
	}

	updated, err := e.sched.RecordReview(*entry, outcome, e.now)
	if errors.Is(err, review.ErrNotActive) {
		exitErr("review mark", fmt.Errorf("%w: reflect on %s first", err, entry.ID))
	}
	if err != nil {
		exitErr("review mark", err)
	}

	saved, err := e.store.SaveReview(cmd.Context(), updated)
	if errors.Is(err, store.ErrConflict) {
		exitErr("review mark", fmt.Errorf("%w: retry", err))
	}
	if err != nil {
		exitErr("review mark", err)
	}
	if saved.IsGraduated {
		logger.Info("entry graduated", "id", saved.ID, "reviews", saved.ReviewCount)
	}

	printJSON(saved)
}
