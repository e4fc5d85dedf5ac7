// Package perf runs loadfire load tests programmatically.
//
// It exposes the same engine the loadfire command uses, without the console
// reporter:
//
//	cfg, err := perf.LoadConfig("loadtest.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := perf.RunTest(context.Background(), cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Succeeded: %d/%d\n", result.Summary.Succeeded, result.Summary.Total)
//	fmt.Printf("Average:   %v\n", result.Summary.Average)
//
// # Building a config in code
//
// Configs built in code go through the same defaults and validation as
// configs loaded from a file:
//
//	body := `{"user": "${name}"}`
//	cfg := &perf.Config{
//	    URL:          "http://localhost:8080/echo",
//	    Method:       "POST",
//	    RequestCount: 100,
//	    Body:         &body,
//	}
//
//	rows, _ := perf.LoadData("users.csv")
//	runner, err := perf.NewRunner(cfg, rows)
//
// # Progress
//
// Runner.Progress may be polled from another goroutine while Run is in
// progress. Its counters are best-effort and only final once Run returns.
package perf
