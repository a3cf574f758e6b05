package etl

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// LogEntry is one line of the structured processing log returned to the
// caller alongside the reports.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Summary struct {
	GuestsProcessed       int `json:"guests_processed"`
	ReservationsProcessed int `json:"reservations_processed"`
	InvoicesProcessed     int `json:"invoices_processed"`
	PropertiesFound       int `json:"properties_found"`
}

// Result is the single value the pipeline hands back: either both reports
// plus summary and log, or the error list plus the log accumulated up to the
// failure point. Never partial reports.
type Result struct {
	Success   bool             `json:"success"`
	Occupancy *OccupancyReport `json:"occupancy,omitempty"`
	Revenue   *RevenueReport   `json:"revenue,omitempty"`
	Summary   *Summary         `json:"summary,omitempty"`
	Log       []LogEntry       `json:"log"`
	Errors    []string         `json:"errors,omitempty"`
}

// Pipeline runs one cleaning+aggregation pass over the uploaded tables. A
// Pipeline mutates its own fields during Run, so an instance must never be
// shared between concurrent runs; create one per request.
type Pipeline struct {
	settings Settings
	logger   *logrus.Logger
	state    State
	log      []LogEntry
	errors   []string
}

func NewPipeline(settings Settings, logger *logrus.Logger) *Pipeline {
	return &Pipeline{settings: settings, logger: logger, state: StateNotStarted}
}

func (p *Pipeline) State() State { return p.state }

func (p *Pipeline) logf(level string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.log = append(p.log, LogEntry{Level: level, Message: msg})
	if level == "error" {
		p.errors = append(p.errors, msg)
	}
	if p.logger == nil {
		return
	}
	entry := p.logger.WithFields(logrus.Fields{"module": "etl"})
	if level == "error" {
		entry.Error(msg)
	} else {
		entry.Info(msg)
	}
}

// Run executes the full pipeline on copies of the decoded inputs. invoices
// is optional; pass nil when no invoice ledger was uploaded.
func (p *Pipeline) Run(guests Table, reservations Table, invoices *Table) (result Result) {
	if p.state == StateRunning {
		return Result{Success: false, Errors: []string{"pipeline is already running"}}
	}
	p.state = StateRunning
	p.log = nil
	p.errors = nil

	defer func() {
		if r := recover(); r != nil {
			result = p.fail(&PipelineError{Stage: "pipeline", Err: fmt.Errorf("%v", r)})
		}
	}()

	scheme, err := DetectScheme(reservations.Columns)
	if err != nil {
		return p.fail(err)
	}
	mapper := NewColumnMapper(scheme)
	p.logf("info", "Detected reservation file language: %s", strings.ToUpper(string(scheme)))

	guestRecords, err := DecodeGuests(guests, mapper)
	if err != nil {
		return p.fail(&PipelineError{Stage: "decode guests", Err: err})
	}
	reservationRecords, err := DecodeReservations(reservations, mapper)
	if err != nil {
		return p.fail(&PipelineError{Stage: "decode reservations", Err: err})
	}

	cleaner, err := NewRecordCleaner(p.settings.PlaceholderWords)
	if err != nil {
		return p.fail(&PipelineError{Stage: "cleaner", Err: err})
	}

	trimmed := TrimNames(guestRecords, reservationRecords)
	p.logf("info", "Trimmed %d guest name fields", trimmed)

	if count, total := AdjustChannelCommission(reservationRecords); count > 0 {
		p.logf("info", "Applied Booking.com commission: %d reservations, +€%s", count, total.StringFixed(2))
	}

	guestRecords, removedGuests := cleaner.FilterGuests(guestRecords)
	p.logf("info", "Removed %d test entries from guests", removedGuests)

	reservationRecords, removedReservations := cleaner.FilterReservations(reservationRecords)
	p.logf("info", "Removed %d invalid reservations", removedReservations)

	reservationRecords, duplicates := Deduplicate(reservationRecords)
	if duplicates > 0 {
		p.logf("info", "Removed %d duplicates", duplicates)
	}

	var combined []CombinedRecord
	if len(reservationRecords) == 0 {
		p.logf("info", "No records found after cleaning - final dataset is empty")
	} else {
		combined = MergeGuests(reservationRecords, guestRecords)
		p.logf("info", "Final dataset: %d unique records", len(combined))
	}

	grouper := NewPropertyGrouper(p.settings.PropertyGroups)
	for i := range combined {
		combined[i].PropertyGroup = grouper.Group(combined[i].Reservation.Property)
	}

	var stayInvoices []InvoiceRecord
	hasInvoices := invoices != nil
	if hasInvoices {
		decoded, err := DecodeInvoices(*invoices, mapper)
		if err != nil {
			return p.fail(&PipelineError{Stage: "decode invoices", Err: err})
		}
		stayType, err := mapper.Fat("stay_value")
		if err != nil {
			return p.fail(err)
		}
		for _, inv := range decoded {
			if inv.ItemType == stayType {
				stayInvoices = append(stayInvoices, inv)
			}
		}
		p.logf("info", "Filtered invoices to %d stay records", len(stayInvoices))
	} else {
		p.logf("info", "No invoice data provided - using reservation values only")
	}

	occupancy := BuildOccupancyReport(combined)
	p.logf("info", "Occupancy report generated")

	revenue := BuildRevenueReport(combined, stayInvoices, hasInvoices, p.settings.IvaRates)
	p.logf("info", "Revenue report generated")

	summary := &Summary{
		GuestsProcessed:       len(guestRecords),
		ReservationsProcessed: len(combined),
		InvoicesProcessed:     len(stayInvoices),
		PropertiesFound:       countPropertyGroups(combined),
	}

	p.logf("info", "Pipeline completed successfully")
	p.state = StateSucceeded
	return Result{
		Success:   true,
		Occupancy: occupancy,
		Revenue:   revenue,
		Summary:   summary,
		Log:       p.log,
	}
}

func (p *Pipeline) fail(err error) Result {
	p.logf("error", "Pipeline error: %v", err)
	p.state = StateFailed
	return Result{Success: false, Log: p.log, Errors: p.errors}
}

func countPropertyGroups(combined []CombinedRecord) int {
	groups := make(map[string]bool)
	for _, rec := range combined {
		groups[rec.PropertyGroup] = true
	}
	return len(groups)
}
