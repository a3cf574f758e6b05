package etl

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type ReservationsSummary struct {
	TotalGrossValue   decimal.Decimal `json:"total_gross_value"`
	TotalCommissions  decimal.Decimal `json:"total_commissions"`
	TotalIva          decimal.Decimal `json:"total_iva"`
	TotalNetValue     decimal.Decimal `json:"total_net_value"`
	TotalReservations int             `json:"total_reservations"`
}

type PropertyRevenue struct {
	Property         string          `json:"property"`
	GrossValue       decimal.Decimal `json:"gross_value"`
	Commission       decimal.Decimal `json:"commission"`
	IvaAmount        decimal.Decimal `json:"iva_amount"`
	NetValue         decimal.Decimal `json:"net_value"`
	ReservationCount int             `json:"reservation_count"`
}

type InvoicesSummary struct {
	TotalGrossValue decimal.Decimal `json:"total_gross_value"`
	TotalIva        decimal.Decimal `json:"total_iva"`
	TotalNetValue   decimal.Decimal `json:"total_net_value"`
	TotalInvoices   int             `json:"total_invoices"`
}

// PropertyInvoices reuses the revenue column names the dashboard expects:
// gross is the document total, net the taxable base, iva the VAT.
type PropertyInvoices struct {
	Property     string          `json:"property"`
	GrossValue   decimal.Decimal `json:"gross_value"`
	NetValue     decimal.Decimal `json:"net_value"`
	IvaAmount    decimal.Decimal `json:"iva_amount"`
	InvoiceCount int             `json:"invoice_count"`
}

// DetailedCalculation carries the unrounded per-record amounts together with
// the applied rate, for export and audit.
type DetailedCalculation struct {
	Property   string          `json:"property"`
	GrossValue decimal.Decimal `json:"gross_value"`
	Commission decimal.Decimal `json:"commission"`
	IvaRate    decimal.Decimal `json:"iva_rate"`
	IvaAmount  decimal.Decimal `json:"iva_amount"`
	NetValue   decimal.Decimal `json:"net_value"`
}

type RevenueReport struct {
	ReservationsSummary    ReservationsSummary   `json:"reservations_summary"`
	ReservationsByProperty []PropertyRevenue     `json:"reservations_by_property"`
	InvoicesSummary        *InvoicesSummary      `json:"invoices_summary"`
	InvoicesByProperty     []PropertyInvoices    `json:"invoices_by_property"`
	DetailedCalculations   []DetailedCalculation `json:"detailed_calculations"`
}

// ivaRate picks the lodging VAT rate by substring match on the property
// identifier: Fuzeta units sit on the Algarve coast with their own rate,
// everything else is taxed at the Azores rate. A missing property gets rate
// zero. Two-tier lookup only, not a general table.
func ivaRate(property string, rates map[string]decimal.Decimal) decimal.Decimal {
	if strings.TrimSpace(property) == "" {
		return decimal.Zero
	}
	if strings.Contains(strings.ToLower(property), coastalRegionKey) {
		return rateOrDefault(rates, coastalRegionKey, defaultCoastalRate)
	}
	return rateOrDefault(rates, azoresRegionKey, defaultAzoresRate)
}

func rateOrDefault(rates map[string]decimal.Decimal, key, fallback string) decimal.Decimal {
	if rate, ok := rates[key]; ok {
		return rate
	}
	return decimal.RequireFromString(fallback)
}

type revenueAgg struct {
	gross      decimal.Decimal
	commission decimal.Decimal
	iva        decimal.Decimal
	net        decimal.Decimal
	count      int
}

// BuildRevenueReport computes per-record financials and aggregates them by
// individual (ungrouped) property. Amounts are rounded to cents only at
// aggregation boundaries; detailed_calculations rows stay unrounded.
func BuildRevenueReport(combined []CombinedRecord, invoices []InvoiceRecord, hasInvoices bool, rates map[string]decimal.Decimal) *RevenueReport {
	report := &RevenueReport{
		ReservationsByProperty: []PropertyRevenue{},
		DetailedCalculations:   []DetailedCalculation{},
	}

	byProperty := make(map[string]*revenueAgg)
	sumGross, sumCommission, sumIva, sumNet := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero

	for _, rec := range combined {
		property := strings.TrimSpace(rec.Reservation.Property)
		if property == "" {
			property = unknownProperty
		}
		rate := ivaRate(rec.Reservation.Property, rates)
		gross := rec.Reservation.Value
		commission := rec.Reservation.Commission
		iva := gross.Mul(rate)
		net := gross.Sub(commission).Sub(iva)

		report.DetailedCalculations = append(report.DetailedCalculations, DetailedCalculation{
			Property:   property,
			GrossValue: gross,
			Commission: commission,
			IvaRate:    rate,
			IvaAmount:  iva,
			NetValue:   net,
		})

		agg := byProperty[property]
		if agg == nil {
			agg = &revenueAgg{gross: decimal.Zero, commission: decimal.Zero, iva: decimal.Zero, net: decimal.Zero}
			byProperty[property] = agg
		}
		agg.gross = agg.gross.Add(gross)
		agg.commission = agg.commission.Add(commission)
		agg.iva = agg.iva.Add(iva)
		agg.net = agg.net.Add(net)
		agg.count++

		sumGross = sumGross.Add(gross)
		sumCommission = sumCommission.Add(commission)
		sumIva = sumIva.Add(iva)
		sumNet = sumNet.Add(net)
	}

	properties := make([]string, 0, len(byProperty))
	for name := range byProperty {
		properties = append(properties, name)
	}
	sort.Strings(properties)
	for _, name := range properties {
		agg := byProperty[name]
		report.ReservationsByProperty = append(report.ReservationsByProperty, PropertyRevenue{
			Property:         name,
			GrossValue:       agg.gross.Round(2),
			Commission:       agg.commission.Round(2),
			IvaAmount:        agg.iva.Round(2),
			NetValue:         agg.net.Round(2),
			ReservationCount: agg.count,
		})
	}

	report.ReservationsSummary = ReservationsSummary{
		TotalGrossValue:   sumGross.Round(2),
		TotalCommissions:  sumCommission.Round(2),
		TotalIva:          sumIva.Round(2),
		TotalNetValue:     sumNet.Round(2),
		TotalReservations: len(combined),
	}

	if hasInvoices {
		summary, byProp := aggregateInvoices(invoices)
		report.InvoicesSummary = &summary
		report.InvoicesByProperty = byProp
	}
	return report
}

type invoiceAgg struct {
	total decimal.Decimal
	base  decimal.Decimal
	vat   decimal.Decimal
	count int
}

// aggregateInvoices sums the stay line items per property. Cancelled
// documents contribute their amounts with the sign flipped, so a booked and
// later cancelled stay nets out to zero. The invoice figures are reported
// alongside the reservation-based revenue, never reconciled against it.
func aggregateInvoices(invoices []InvoiceRecord) (InvoicesSummary, []PropertyInvoices) {
	byProperty := make(map[string]*invoiceAgg)
	sumTotal, sumBase, sumVat := decimal.Zero, decimal.Zero, decimal.Zero

	for _, inv := range invoices {
		total, base, vat := inv.Total, inv.Base, inv.VAT
		if inv.Cancelled {
			total = total.Neg()
			base = base.Neg()
			vat = vat.Neg()
		}
		agg := byProperty[inv.Property]
		if agg == nil {
			agg = &invoiceAgg{total: decimal.Zero, base: decimal.Zero, vat: decimal.Zero}
			byProperty[inv.Property] = agg
		}
		agg.total = agg.total.Add(total)
		agg.base = agg.base.Add(base)
		agg.vat = agg.vat.Add(vat)
		agg.count++

		sumTotal = sumTotal.Add(total)
		sumBase = sumBase.Add(base)
		sumVat = sumVat.Add(vat)
	}

	properties := make([]string, 0, len(byProperty))
	for name := range byProperty {
		properties = append(properties, name)
	}
	sort.Strings(properties)

	rows := make([]PropertyInvoices, 0, len(properties))
	for _, name := range properties {
		agg := byProperty[name]
		rows = append(rows, PropertyInvoices{
			Property:     name,
			GrossValue:   agg.total.Round(2),
			NetValue:     agg.base.Round(2),
			IvaAmount:    agg.vat.Round(2),
			InvoiceCount: agg.count,
		})
	}

	summary := InvoicesSummary{
		TotalGrossValue: sumTotal.Round(2),
		TotalIva:        sumVat.Round(2),
		TotalNetValue:   sumBase.Round(2),
		TotalInvoices:   len(invoices),
	}
	return summary, rows
}
