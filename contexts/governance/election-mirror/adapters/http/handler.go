package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"ledgervote/contexts/governance/election-mirror/application/queries"
	"ledgervote/contexts/governance/election-mirror/domain/entities"
	httptransport "ledgervote/contexts/governance/election-mirror/transport/http"

	"github.com/samber/lo"
)

type Handler struct {
	Queries queries.MirrorQueries
	Logger  *slog.Logger
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.MirrorElectionListResponse, error) {
	items, err := h.Queries.ListElections(ctx)
	if err != nil {
		return httptransport.MirrorElectionListResponse{}, err
	}
	return httptransport.MirrorElectionListResponse{
		Total: len(items),
		Items: lo.Map(items, func(item entities.ElectionView, _ int) httptransport.MirrorElectionResponse {
			return mapElection(item)
		}),
	}, nil
}

func (h Handler) GetElectionHandler(ctx context.Context, address string) (httptransport.MirrorElectionResponse, error) {
	view, err := h.Queries.GetElection(ctx, address)
	if err != nil {
		return httptransport.MirrorElectionResponse{}, err
	}
	return mapElection(view), nil
}

func (h Handler) PrincipalRolesHandler(ctx context.Context, principal string) (httptransport.MirrorPrincipalResponse, error) {
	roles, err := h.Queries.PrincipalRoles(ctx, principal)
	if err != nil {
		return httptransport.MirrorPrincipalResponse{}, err
	}
	return httptransport.MirrorPrincipalResponse{
		Principal: roles.Principal,
		Roles:     append([]string{}, roles.Roles...),
		SyncedAt:  formatTime(roles.SyncedAt),
	}, nil
}

func mapElection(view entities.ElectionView) httptransport.MirrorElectionResponse {
	return httptransport.MirrorElectionResponse{
		Address:              view.Address,
		ElectionID:           view.ElectionID,
		Name:                 view.Name,
		Description:          view.Description,
		Manager:              view.Manager,
		Status:               view.Status,
		IsActive:             view.IsActive,
		StartTime:            formatTime(view.StartTime),
		EndTime:              formatTime(view.EndTime),
		RegistrationDeadline: formatTime(view.RegistrationDeadline),
		TotalVotes:           view.TotalVotes,
		TotalCandidates:      view.TotalCandidates,
		WinnerID:             view.WinnerID,
		Version:              view.Version,
		Candidates: lo.Map(view.Candidates, func(c entities.CandidateView, _ int) httptransport.MirrorCandidate {
			return httptransport.MirrorCandidate(c)
		}),
		SyncedAt: formatTime(view.SyncedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
