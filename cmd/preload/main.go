// Preload verifies batches of interviewer and supervisor accounts before
// they are imported.
//
// Usage:
//
//	# Verify a batch against a snapshot of existing users
//	preload verify --batch users.tsv --directory users.yaml
//
//	# Emit JUnit XML for a CI job
//	preload verify --batch users.tsv --directory users.db --format junit
//
//	# Re-verify whenever the inputs change
//	preload verify --batch users.tsv --directory users.yaml --watch
//
//	# List the rule catalog
//	preload rules
//
//	# Browse stored reports
//	preload history list --violations
//
// Exit status is 0 when the batch is clean, 2 when it has violations and
// 1 on any other error.
package main

func main() {
	Execute()
}
