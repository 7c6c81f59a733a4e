package services

import "github.com/aymerigermain/dashboard-acadi/internal/models"

// SuccessfulPayments keeps the charges that actually moved money:
// status succeeded and a strictly positive amount. Pure filter, order
// preserved.
func SuccessfulPayments(charges []models.Charge) []models.Charge {
	kept := make([]models.Charge, 0, len(charges))
	for _, c := range charges {
		if c.Status == models.ChargeSucceeded && c.Amount > 0 {
			kept = append(kept, c)
		}
	}
	return kept
}
