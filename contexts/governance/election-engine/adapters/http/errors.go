package httpadapter

import domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"

var (
	ErrUnknownAction          = &domainerrors.Error{Kind: domainerrors.KindValidation, Reason: "unknown lifecycle action"}
	ErrUnknownCandidateFilter = &domainerrors.Error{Kind: domainerrors.KindValidation, Reason: "unknown candidate status filter"}
)
