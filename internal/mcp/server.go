// ABOUTME: MCP server setup for the calorie ledger.
// ABOUTME: Wraps the MCP server with repository, ledger, and signed-in user.
package mcp

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/harperreed/calories/internal/ledger"
	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
var Version = "dev"

// Server wraps the MCP server with ledger access for one user.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	ledger    *ledger.Ledger
	user      *models.User
	logger    *log.Logger
}

// NewServer creates a new MCP server acting as user.
func NewServer(repo storage.Repository, book *ledger.Ledger, user *models.User, logger *log.Logger) (*Server, error) {
	if user == nil {
		return nil, errors.New("mcp server needs a signed-in user")
	}
	if logger == nil {
		logger = log.Default()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "calories",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		ledger:    book,
		user:      user,
		logger:    logger.WithPrefix("mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("serving over stdio", "user", s.user.Email)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
