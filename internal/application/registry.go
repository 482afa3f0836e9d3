package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
)

// revisioned is implemented by settings stores that count writes
type revisioned interface {
	Revision(ctx context.Context, collection string) (int, error)
}

// Settings location of the project record blob
const (
	SettingsCollection = "SolutionMindMaps"
	SettingsProperty   = "MindMapsData"
)

// ProjectRegistry maps projects to their link store files. The whole record
// list is read, changed in memory and written back as one blob on every save.
type ProjectRegistry struct {
	store       ports.SettingsStore
	appDataRoot string
	newDirName  func() string
	logger      *slog.Logger
}

// NewProjectRegistry creates a registry whose generated link stores live
// under appDataRoot.
func NewProjectRegistry(store ports.SettingsStore, appDataRoot string, logger *slog.Logger) *ProjectRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectRegistry{
		store:       store,
		appDataRoot: appDataRoot,
		newDirName:  func() string { return ulid.Make().String() },
		logger:      logger,
	}
}

// Load returns the stored records. A missing, unreadable or corrupt blob
// yields an empty list.
func (r *ProjectRegistry) Load(ctx context.Context) domain.Records {
	raw, found, err := r.store.Get(ctx, SettingsCollection, SettingsProperty)
	if err != nil {
		r.logger.Warn("settings unreadable, starting empty", "error", err)
		return domain.Records{}
	}
	if !found || raw == "" {
		return domain.Records{}
	}

	var records domain.Records
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		r.logger.Warn("settings corrupt, starting empty", "error", &ParseError{Source: SettingsProperty, Err: err})
		return domain.Records{}
	}
	if records == nil {
		records = domain.Records{}
	}
	return records
}

// Save overwrites the stored blob with records
func (r *ProjectRegistry) Save(ctx context.Context, records domain.Records) error {
	if records == nil {
		records = domain.Records{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode project records: %w", err)
	}
	if err := r.store.Set(ctx, SettingsCollection, SettingsProperty, string(data)); err != nil {
		return &IOError{Op: "write", Path: SettingsCollection + "/" + SettingsProperty, Err: err}
	}
	if rs, ok := r.store.(revisioned); ok {
		if rev, err := rs.Revision(ctx, SettingsCollection); err == nil {
			r.logger.Debug("project records saved", "records", len(records), "revision", rev)
		}
	}
	return nil
}

// FindOrCreate returns the record for (id, projectFilePath). When none
// exists a new one with a freshly generated storage directory is appended
// and persisted. created reports which case happened.
func (r *ProjectRegistry) FindOrCreate(ctx context.Context, id, projectFilePath string) (rec domain.ProjectRecord, created bool, err error) {
	if err := ValidateRequired("projectFilePath", projectFilePath); err != nil {
		return domain.ProjectRecord{}, false, err
	}

	records := r.Load(ctx)
	if i := records.Find(id, projectFilePath); i >= 0 {
		return records[i], false, nil
	}

	rec = domain.NewProjectRecord(id, projectFilePath, r.appDataRoot, r.newDirName())
	if err := r.Save(ctx, append(records, rec)); err != nil {
		return rec, true, err
	}
	r.logger.Info("project registered", "project", id, "link_store", rec.LinkStoreFilePath)
	return rec, true, nil
}

// Upsert replaces the stored record matching rec's (id, path) or appends it
func (r *ProjectRegistry) Upsert(ctx context.Context, rec domain.ProjectRecord) error {
	if rec.IsEmpty() {
		return ErrNoProject
	}
	return r.Save(ctx, r.Load(ctx).Upsert(rec))
}

// Lookup returns the stored record for a project file without creating one
func (r *ProjectRegistry) Lookup(ctx context.Context, projectFilePath string) (domain.ProjectRecord, bool) {
	records := r.Load(ctx)
	if i := records.Find(domain.ProjectID(projectFilePath), projectFilePath); i >= 0 {
		return records[i], true
	}
	return domain.ProjectRecord{}, false
}
