// Package convert dispatches matched activities to the external converter.
//
// For each record it materializes the source track from the export into a
// per-run staging directory, unwraps gzip where needed, and either invokes
// gpsbabel (FIT, TCX) or copies the file through (GPX). Per-activity
// problems are counted and reported in the run summary; they never abort the
// rest of the batch. Dispatch is strictly sequential.
package convert
