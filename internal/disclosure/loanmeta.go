package disclosure

import (
	"fmt"
	"strings"

	"github.com/fintrid/tridcheck/internal/common"
)

// LoanMeta is the display header for reports: borrower, property and loan
// identity pulled from whichever record is available, CD preferred.
type LoanMeta struct {
	Borrower   string `json:"borrower"`
	Property   string `json:"property"`
	LoanID     string `json:"loan_id"`
	LoanType   string `json:"loan_type"`
	Purpose    string `json:"purpose"`
	Product    string `json:"product"`
	Term       string `json:"term"`
	SalePrice  string `json:"sale_price"`
	LoanAmount string `json:"loan_amount"`
}

const metaMissing = "—"

// ExtractLoanMeta builds the report header from the CD when present,
// falling back to the LE.
func ExtractLoanMeta(le, cd *FeeRecord) LoanMeta {
	r := cd
	if r == nil {
		r = le
	}
	meta := LoanMeta{
		Borrower:   metaMissing,
		Property:   metaMissing,
		LoanID:     metaMissing,
		LoanType:   metaMissing,
		Purpose:    metaMissing,
		Product:    metaMissing,
		Term:       metaMissing,
		SalePrice:  metaMissing,
		LoanAmount: metaMissing,
	}
	if r == nil {
		return meta
	}

	var names []string
	for _, a := range r.Applicants {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	if len(names) > 0 {
		meta.Borrower = strings.Join(names, " & ")
	}
	if addr := r.Property["address"]; addr != "" {
		meta.Property = addr
	}
	if r.Loan != nil {
		if r.Loan.LoanID != "" {
			meta.LoanID = r.Loan.LoanID
		}
		if r.Loan.Type != "" {
			meta.LoanType = r.Loan.Type
		}
		if r.Loan.Purpose != "" {
			meta.Purpose = r.Loan.Purpose
		}
		if r.Loan.Product != "" {
			meta.Product = r.Loan.Product
		}
		if r.Loan.TermMonths != nil {
			meta.Term = fmt.Sprintf("%d months", *r.Loan.TermMonths)
		}
	}
	if r.SalePrice != nil {
		meta.SalePrice = common.FormatMoney(r.SalePrice)
	}
	if r.LoanTerms != nil && r.LoanTerms.LoanAmount != nil {
		meta.LoanAmount = common.FormatMoney(r.LoanTerms.LoanAmount)
	}
	return meta
}
