package models

import (
	"errors"
	"strings"
)

type ResolveExternalTransferRequest struct {
	TransactionID string `json:"transactionId"`
}

func (r ResolveExternalTransferRequest) Validate() error {
	if strings.TrimSpace(r.TransactionID) == "" {
		return errors.New("transactionId is required")
	}
	return nil
}

type ResolveBatchRequest struct {
	TransactionIDs []string `json:"transactionIds"`
	Action         string   `json:"action"`
}

func (r ResolveBatchRequest) Validate() error {
	var errs []string

	if len(r.TransactionIDs) == 0 {
		errs = append(errs, "transactionIds must not be empty")
	}
	for _, id := range r.TransactionIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, "transactionIds must not contain empty values")
			break
		}
	}
	action := strings.ToLower(strings.TrimSpace(r.Action))
	if action != "approve" && action != "reject" {
		errs = append(errs, "action must be approve or reject")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ResolveBatchResponse struct {
	Resolved []TransactionResponse `json:"resolved"`
	Skipped  []string              `json:"skipped,omitempty"`
	Failed   []string              `json:"failed,omitempty"`
}
