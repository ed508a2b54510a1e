// Package mapping turns one bank export row into one YNAB import row.
//
// A Spec declares which source columns are kept and what they are renamed
// to, plus an optional memo rule that composes the Memo column from several
// source fields:
//
//	version: "1"
//	header: [Date, Payee, Memo, Amount]
//	columns:
//	  - source: Datum
//	    target: Date
//	  - source: Omschrijving
//	    target: Payee
//	  - source: Bedrag
//	    target: Amount
//	memo:
//	  target: Memo
//	  reference: Transactiereferentie
//	  paid_amount: Oorspr bedrag
//	  paid_currency: Oorspr munt
//	  exchange_rate: Koers
//
// Values are copied verbatim. Amounts, rates and dates are never parsed or
// normalized.
package mapping
