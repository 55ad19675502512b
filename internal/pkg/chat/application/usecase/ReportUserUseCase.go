package usecase

import (
	"context"

	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
	identity "go-matchmate/internal/pkg/identity/application/domain"
)

type ReportUserInput struct {
	Actor       identity.Actor
	ChatID      string
	Type        string
	Description string
}

// ReportUserUseCase files a report against the counterparty of the
// participant the actor acts for.
type ReportUserUseCase struct {
	Repo repository.ChatRepository
}

func NewReportUserUseCase(repo repository.ChatRepository) *ReportUserUseCase {
	return &ReportUserUseCase{Repo: repo}
}

func (uc *ReportUserUseCase) Execute(ctx context.Context, in ReportUserInput) (chat.Report, error) {
	t, err := chat.ParseReportType(in.Type)
	if err != nil {
		return chat.Report{}, err
	}
	c, err := uc.Repo.GetChat(ctx, in.ChatID)
	if err != nil {
		return chat.Report{}, repoErr(err)
	}
	reporter, err := actingParticipant(in.Actor, c)
	if err != nil {
		return chat.Report{}, err
	}
	reported, err := c.Counterparty(reporter)
	if err != nil {
		return chat.Report{}, err
	}

	rep := chat.NewReport(c.ID, reported, in.Actor.ID, t, in.Description)
	if err := uc.Repo.SaveReport(ctx, rep); err != nil {
		return chat.Report{}, repoErr(err)
	}
	return rep, nil
}
