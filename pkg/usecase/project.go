package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/model"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
)

// CreateProject creates the project record, clones the template
// connections onto it, and submits the CREATE fan-out. The origin
// names the service the trigger came from, empty for external
// triggers.
func (uc *UseCases) CreateProject(ctx context.Context, title string, typeCode types.TypeCode, origin types.ServiceKind) (*model.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, goerr.New("project title is required")
	}
	if err := typeCode.Validate(); err != nil {
		return nil, err
	}
	if !uc.topology.HasTypeCode(typeCode) {
		return nil, goerr.New("unknown project type code", goerr.V("typeCode", typeCode))
	}

	project, err := uc.repo.Project().Create(ctx, &model.Project{
		Title:    title,
		TypeCode: typeCode,
	})
	if err != nil {
		return nil, err
	}

	for _, tc := range uc.templateConnections(ctx) {
		if _, err := uc.repo.Connection().Create(ctx, &model.ServiceConnection{
			ProjectID: project.ID,
			Kind:      tc.Kind,
			Qualifier: tc.Qualifier,
		}); err != nil {
			return nil, err
		}
	}

	if err := uc.submit(ctx, model.LifecycleJob{
		ProjectID: project.ID,
		Action:    types.ActionCreate,
		Origin:    origin,
	}); err != nil {
		return nil, err
	}
	return project, nil
}

// templateConnections returns the template's connection specs, falling
// back to one unqualified connection per topology service when no
// template document exists
func (uc *UseCases) templateConnections(ctx context.Context) []model.TemplateConnection {
	tmpl, err := uc.repo.Template().Get(ctx)
	if err == nil {
		return tmpl.Connections
	}
	if !types.IsNotFound(err) {
		logging.From(ctx).Warn("failed to load template, using topology fallback", "error", err.Error())
	}

	var specs []model.TemplateConnection
	for _, kind := range uc.topology.Order() {
		specs = append(specs, model.TemplateConnection{Kind: kind})
	}
	return specs
}

// RenameProject changes the project title and submits the RENAME
// fan-out. Renaming to the current title is a no-op without a fan-out.
func (uc *UseCases) RenameProject(ctx context.Context, projectID int64, title string, origin types.ServiceKind) (*model.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, goerr.New("project title is required")
	}

	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Title == title {
		return project, nil
	}

	project.Title = title
	project, err = uc.repo.Project().Update(ctx, project)
	if err != nil {
		return nil, err
	}

	if err := uc.submit(ctx, model.LifecycleJob{
		ProjectID: project.ID,
		Action:    types.ActionRename,
		Origin:    origin,
	}); err != nil {
		return nil, err
	}
	return project, nil
}

// ChangeProjectType changes the type code and submits the RENAME
// fan-out, since the code is part of every derived name
func (uc *UseCases) ChangeProjectType(ctx context.Context, projectID int64, typeCode types.TypeCode, origin types.ServiceKind) (*model.Project, error) {
	if err := typeCode.Validate(); err != nil {
		return nil, err
	}
	if !uc.topology.HasTypeCode(typeCode) {
		return nil, goerr.New("unknown project type code", goerr.V("typeCode", typeCode))
	}

	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.TypeCode == typeCode {
		return project, nil
	}

	project.TypeCode = typeCode
	project, err = uc.repo.Project().Update(ctx, project)
	if err != nil {
		return nil, err
	}

	if err := uc.submit(ctx, model.LifecycleJob{
		ProjectID: project.ID,
		Action:    types.ActionRename,
		Origin:    origin,
	}); err != nil {
		return nil, err
	}
	return project, nil
}

// ArchiveProject flags the project archived and submits the ARCHIVE
// fan-out
func (uc *UseCases) ArchiveProject(ctx context.Context, projectID int64, origin types.ServiceKind) (*model.Project, error) {
	return uc.setArchived(ctx, projectID, true, types.ActionArchive, origin)
}

// UnarchiveProject clears the archived flag and submits the UNARCHIVE
// fan-out
func (uc *UseCases) UnarchiveProject(ctx context.Context, projectID int64, origin types.ServiceKind) (*model.Project, error) {
	return uc.setArchived(ctx, projectID, false, types.ActionUnarchive, origin)
}

func (uc *UseCases) setArchived(ctx context.Context, projectID int64, archived bool, action types.Action, origin types.ServiceKind) (*model.Project, error) {
	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// The local flag may already match after a previous partial failure;
	// the fan-out still runs so stragglers catch up.
	if project.Archived != archived {
		project.Archived = archived
		project, err = uc.repo.Project().Update(ctx, project)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.submit(ctx, model.LifecycleJob{
		ProjectID: project.ID,
		Action:    action,
		Origin:    origin,
	}); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject archives all connected resources synchronously, then
// removes the project record and its connections. Remote resources are
// never deleted, only archived.
func (uc *UseCases) DeleteProject(ctx context.Context, projectID int64) error {
	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return err
	}

	if !project.Archived {
		project.Archived = true
		if _, err := uc.repo.Project().Update(ctx, project); err != nil {
			return err
		}
	}

	// synchronous: the records disappear after this, so the fan-out
	// cannot be retried later
	if err := uc.ExecuteLifecycle(ctx, model.LifecycleJob{
		ProjectID: projectID,
		Action:    types.ActionArchive,
	}); err != nil {
		return err
	}

	if err := uc.repo.Connection().DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	return uc.repo.Project().Delete(ctx, projectID)
}

// GetProject retrieves one project
func (uc *UseCases) GetProject(ctx context.Context, projectID int64) (*model.Project, error) {
	return uc.repo.Project().Get(ctx, projectID)
}

// ListProjects retrieves all projects
func (uc *UseCases) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return uc.repo.Project().List(ctx)
}

// ListConnections retrieves the connections of one project
func (uc *UseCases) ListConnections(ctx context.Context, projectID int64) ([]*model.ServiceConnection, error) {
	return uc.repo.Connection().ListByProject(ctx, projectID)
}

// ProjectByChannel resolves the project owning the given chat channel.
// This is how slash commands issued inside a project channel find
// their project without the user spelling out an ID.
func (uc *UseCases) ProjectByChannel(ctx context.Context, channelID string) (*model.Project, error) {
	conn, err := uc.repo.Connection().FindByRemote(ctx, types.ServiceKindSlack, channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "no project is linked to this channel", goerr.V("channel_id", channelID))
	}
	return uc.repo.Project().Get(ctx, conn.ProjectID)
}
