package etl

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaDetectionError means the reservation table's columns match neither
// naming scheme strongly enough. Not recoverable; nothing is cleaned.
type SchemaDetectionError struct {
	PTMarkers []string
	ENMarkers []string
	Found     []string
}

func (e *SchemaDetectionError) Error() string {
	found := append([]string(nil), e.Found...)
	sort.Strings(found)
	return fmt.Sprintf(
		"unable to detect reservation file language: expected Portuguese columns [%s] or English columns [%s], found columns: [%s]",
		strings.Join(e.PTMarkers, ", "),
		strings.Join(e.ENMarkers, ", "),
		strings.Join(found, ", "),
	)
}

// ConfigurationError is a lookup of a logical column key that has no mapping
// for the detected scheme. Always a programming defect, never user data.
type ConfigurationError struct {
	Group string
	Key   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no %s column mapping defined for logical key %q", e.Group, e.Key)
}

// PipelineError wraps any unexpected failure inside a pipeline stage.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error in %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
