package dto

import (
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// FromCustomer maps a Customer aggregate to its transport form.
func FromCustomer(c model.Customer) CustomerResponse {
	nid := c.NationalID()
	return CustomerResponse{
		ID:               c.ID(),
		Name:             c.Name(),
		Phone:            c.Phone(),
		Email:            c.Email(),
		NationalIDNumber: nid.Number,
		NationalIDType:   nid.Type,
		NationalIDExpiry: nid.Expiry,
		NationalIDImages: nid.ImagePaths,
		Notes:            c.Notes(),
		Active:           c.Active(),
		CreatedAt:        c.CreatedAt(),
	}
}

// FromLoan maps a Loan aggregate to its transport form, without child
// collections.
func FromLoan(l model.Loan) LoanResponse {
	return LoanResponse{
		ID:              l.ID(),
		CustomerID:      l.CustomerID(),
		PrincipalAmount: money.FormatAmount(l.Principal()),
		InterestRate:    l.InterestRate().String(),
		StartDate:       l.StartDate(),
		DueDate:         l.DueDate(),
		Status:          l.Status().String(),
		Notes:           l.Notes(),
		CreatedAt:       l.CreatedAt(),
	}
}

// FromCycle maps a BillingCycle aggregate to its transport form.
func FromCycle(c model.BillingCycle) CycleResponse {
	s := c.State()
	return CycleResponse{
		ID:               c.ID(),
		CycleNumber:      c.CycleNumber(),
		StartDate:        c.StartDate(),
		EndDate:          c.EndDate(),
		OpeningPrincipal: money.FormatAmount(s.OpeningPrincipal),
		InterestCharged:  money.FormatAmount(s.InterestCharged),
		TotalDue:         money.FormatAmount(s.TotalDue),
		TotalPaid:        money.FormatAmount(s.TotalPaid),
		Balance:          money.FormatAmount(s.Balance),
		Status:           c.Status().String(),
	}
}

// FromCollateral maps a Collateral aggregate to its transport form.
func FromCollateral(c model.Collateral) CollateralResponse {
	resp := CollateralResponse{
		ID:           c.ID(),
		LoanID:       c.LoanID(),
		Description:  c.Description(),
		SerialNumber: c.SerialNumber(),
		ImagePaths:   c.ImagePaths(),
		ReturnedAt:   c.ReturnedAt(),
		Notes:        c.Notes(),
	}
	if v := c.EstimatedValue(); v != nil {
		resp.EstimatedValue = money.FormatAmount(*v)
	}
	return resp
}

// FromPayment maps a Payment record to its transport form. Cycle balance and
// loan status are filled by the use case, which knows the post-payment state.
func FromPayment(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:      p.ID(),
		LoanID:  p.LoanID(),
		CycleID: p.CycleID(),
		Amount:  money.FormatAmount(p.Amount()),
		PaidAt:  p.PaidAt(),
		Note:    p.Note(),
	}
}
