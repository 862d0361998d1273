// Package verifier runs one verification of an import batch against a
// directory snapshot.
//
// A run builds the directory index, binds the row and dataset rule
// catalogs, evaluates every row, records metrics and a trace span, and
// optionally stores the report in history. The run id is also the report
// id, so log lines, spans and stored reports can be joined.
//
//	v, err := verifier.New(&verifier.Config{Policy: policy})
//	if err != nil {
//		return err
//	}
//	res, err := v.VerifyFiles(ctx, verifier.Files{Batch: "batch.csv", Directory: "directory.yaml"})
package verifier
