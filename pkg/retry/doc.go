// Package retry runs cloud API calls with jittered backoff and a bounded total wait.
//
// # Backoff
//
// Jitter implements decorrelated jitter: every wait is drawn at random from
// [0, min(60s, 3 * previous wait)] and then raised to a configurable floor. Waits are
// real, uninterruptible sleeps.
//
// # Retry Engine
//
// Do and Run call an operation until it succeeds, fails with an error the Policy's
// Classifier rejects, or the cumulative wait exceeds the Policy's Budget. The last
// error is returned unchanged; the engine never invents a "retries exhausted" error.
//
// Three classifier presets cover the common cases:
//
//	retry.KeepTrying(10*time.Minute)              // every error is retried
//	retry.Throttled()                             // AWS throttling, read timeouts, waiter failures
//	retry.WithRules(retry.Rule{Kind: retry.KindService, Messages: []string{"SlowDown"}})
//
// # Pagination
//
// ListAll drives a listing Operation page by page, feeding the continuation token
// back under a caller-chosen argument name until the token disappears or repeats.
// FromCall adapts typed AWS SDK v2 calls to Operation.
//
//	objects, err := retry.ListAll[types.Object](ctx, retry.Throttled(), "ListObjectsV2",
//	    retry.FromCall(client.ListObjectsV2, s3.ListObjectsV2Input{Bucket: aws.String(bucket)}),
//	    retry.PagedRequest{
//	        ResultsField: "Contents",
//	        TokenField:   "NextContinuationToken",
//	        TokenArg:     "ContinuationToken",
//	    })
//
// # Thread Safety
//
// Policy values are plain configuration and may be shared. Every call builds its own
// Jitter, so concurrent calls share no state.
package retry
