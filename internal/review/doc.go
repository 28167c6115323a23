// Package review implements the spaced-repetition rules for journal entries.
//
// An entry enters the pipeline when its first reflection is attached, is
// resurfaced on a fixed day schedule (1, 7, 16, 35 by default) and graduates
// out of the queue after a configured number of successful reviews.
//
//	s, err := review.NewScheduler(review.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	e = s.Activate(e, now)
//	e, err = s.RecordReview(e, model.GotIt, now)
//
// Every function takes the current time explicitly; nothing here reads the
// wall clock.
package review
