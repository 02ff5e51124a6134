// Package studentapi defines the remote student list contract and the list
// handles bundled with studentstats.
//
// A StudentList serves records in fixed pages. Page fails with an error
// matching ErrQueryTimedOut when the source is temporarily unavailable; callers
// may retry such failures. Every other error is permanent for that call.
//
// Bundled handles:
//
//   - MemoryList keeps records in memory and can inject timeouts per page.
//   - Flaky wraps any list and times out a random share of fetches.
//   - studentapi/sqlite pages through a SQLite database.
//   - studentapi/rest pages through the HTTP API served by studentapi/server.
//
// Datasets are YAML documents read by LoadDataset:
//
//	students:
//	  - id: "1001"
//	    marks:
//	      CITS2200: 80
//	  - id: "1002"
//
// Records are listed oldest first, so the last page holds the newest students.
package studentapi
