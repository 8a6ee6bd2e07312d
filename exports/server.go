package exports

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/erikmagkekse/dshare/console"
	"github.com/erikmagkekse/dshare/model"

	"github.com/rs/zerolog/log"
)

// ServiceManager is the part of the service manager the export server needs.
type ServiceManager interface {
	EnsureRunning(ctx context.Context, unit string) error
}

// Server manages the exports file and keeps the kernel export table in sync
// with it.
type Server struct {
	file     string
	exportfs *Exportfs
	services ServiceManager
	console  *console.Console
	// serializes read-modify-write of the exports file when used by the agent
	mu sync.Mutex
}

func NewServer(file string, exportfs *Exportfs, services ServiceManager, con *console.Console) *Server {
	return &Server{file: file, exportfs: exportfs, services: services, console: con}
}

func (s *Server) File() string { return s.file }

func (s *Server) Exportfs() *Exportfs { return s.exportfs }

// AddExport creates or updates the export of path to client. An existing
// path+client pair keeps its position and gets the new options.
func (s *Server) AddExport(ctx context.Context, path, client, options string) error {
	if options == "" {
		options = model.DefaultExportOptions
	}
	req := model.ExportRequest{Path: path, Client: client, Options: options}
	if err := model.Validate(req); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return model.NotFound(fmt.Sprintf("export path does not exist: %s", path))
		}
		return fmt.Errorf("stat export path: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := Load(s.file)
	if err != nil {
		exportOpsTotal.WithLabelValues("add", "error").Inc()
		return err
	}
	if reg.Upsert(Entry{Path: path, Client: client, Options: options}) {
		log.Info().Str("path", path).Str("client", client).Str("options", options).Msg("export updated")
	} else {
		log.Debug().Str("path", path).Str("client", client).Msg("export unchanged")
	}
	if err := s.apply(ctx, reg); err != nil {
		exportOpsTotal.WithLabelValues("add", "error").Inc()
		return err
	}
	exportOpsTotal.WithLabelValues("add", "success").Inc()
	return nil
}

// RemoveExport removes the export of path to client. Client "all" or empty
// removes every client of path. Removing an unknown pair is not an error.
func (s *Server) RemoveExport(ctx context.Context, path, client string) error {
	if err := model.Validate(model.UnexportRequest{Path: path, Client: client}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := Load(s.file)
	if err != nil {
		exportOpsTotal.WithLabelValues("remove", "error").Inc()
		return err
	}

	if client == "" || client == model.AllClients {
		n := reg.RemoveAll(path)
		log.Info().Str("path", path).Int("removed", n).Msg("removed all clients of export")
	} else if !reg.Remove(path, client) {
		log.Info().Str("path", path).Str("client", client).Msg("export not found")
		return nil
	}

	if err := s.apply(ctx, reg); err != nil {
		exportOpsTotal.WithLabelValues("remove", "error").Inc()
		return err
	}
	exportOpsTotal.WithLabelValues("remove", "success").Inc()
	return nil
}

// Entries returns the entries of the exports file.
func (s *Server) Entries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := Load(s.file)
	if err != nil {
		return nil, err
	}
	return reg.Entries(), nil
}

// Reload re-exports the exports file and makes sure the server unit runs.
func (s *Server) Reload(ctx context.Context) error {
	if err := s.exportfs.Reload(ctx); err != nil {
		return fmt.Errorf("reload exports: %w", err)
	}
	if err := s.services.EnsureRunning(ctx, model.ServerUnit); err != nil {
		return fmt.Errorf("ensure %s running: %w", model.ServerUnit, err)
	}
	return nil
}

// Display prints the exports file.
func (s *Server) Display(_ context.Context) error {
	data, err := os.ReadFile(s.file)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read exports: %w", err)
	}
	s.console.Success(strings.TrimSpace("Exports:\n" + string(data)))
	return nil
}

func (s *Server) apply(ctx context.Context, reg *Registry) error {
	if err := reg.Save(s.file); err != nil {
		return fmt.Errorf("save exports: %w", err)
	}
	exportsGauge.Set(float64(reg.Len()))
	if err := s.Reload(ctx); err != nil {
		return err
	}
	return s.Display(ctx)
}
