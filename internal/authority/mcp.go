package authority

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// Service is an authority that can also report its current board.
type Service interface {
	puzzle.Authority
	Board(ctx context.Context) (BoardUpdate, error)
}

var (
	_ Service = (*Local)(nil)
	_ Service = (*Client)(nil)
)

// ToolServer exposes an authority as MCP tools so an agent can play.
type ToolServer struct {
	svc       Service
	mcpServer *server.MCPServer
}

// NewToolServer creates the MCP server with the start_game, move and board tools.
func NewToolServer(svc Service, version string) *ToolServer {
	t := &ToolServer{svc: svc}
	t.mcpServer = server.NewMCPServer(
		"Slide Puzzle",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Slide Puzzle - MCP Interface

The board is an N×N grid of numbered tiles with one empty slot (shown as ".").
Slots are numbered row by row starting at 0. A tile can move only into the
empty slot, and only from a slot directly above, below, left or right of it.
The puzzle is solved when the tiles read 1, 2, 3, ... in order with the empty
slot last.

AVAILABLE TOOLS:
- start_game: Shuffle a new board
- move: Slide the tile in a slot into the empty slot
- board: Show the current board`),
	)
	t.registerTools()
	return t
}

// MCPServer returns the underlying MCP server for serving.
func (t *ToolServer) MCPServer() *server.MCPServer {
	return t.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the client disconnects.
func (t *ToolServer) ServeStdio() error {
	return server.ServeStdio(t.mcpServer)
}

func (t *ToolServer) registerTools() {
	t.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new shuffled game, replacing the current one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"grid_size": map[string]interface{}{
					"type":        "number",
					"description": "Board size N for an N×N grid (default 3)",
				},
			},
		},
	}, t.handleStartGame)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide the tile in the given slot into the empty slot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"slot": map[string]interface{}{
					"type":        "number",
					"description": "Row-major slot index of the tile to move",
				},
			},
			Required: []string{"slot"},
		},
	}, t.handleMove)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "board",
		Description: "Show the current board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, t.handleBoard)
}

func intArg(request mcp.CallToolRequest, name string) (int, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return 0, false
	}
	v, ok := args[name].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func (t *ToolServer) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, ok := intArg(request, "grid_size")
	if !ok || n == 0 {
		n = DefaultGridSize
	}
	if n < 2 || n > MaxGridSize {
		return mcp.NewToolResultError(fmt.Sprintf("grid_size must be between 2 and %d", MaxGridSize)), nil
	}

	resp, err := t.svc.StartGame(ctx, n)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Started %dx%d game (picture: %s)\n\n%s\n", n, n, resp.ImagePath, FormatBoard(n, resp.Positions))
	return mcp.NewToolResultText(result), nil
}

func (t *ToolServer) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slot, ok := intArg(request, "slot")
	if !ok {
		return mcp.NewToolResultError("slot is required"), nil
	}

	resp, err := t.svc.Move(ctx, slot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n := gridSizeOf(resp.Positions)
	var status string
	switch {
	case resp.Moved && resp.IsSolved:
		status = "Moved. The puzzle is solved!"
	case resp.Moved:
		status = "Moved."
	case resp.IsSolved:
		status = "Not moved: the puzzle is already solved. Call start_game for a new board."
	default:
		status = "Not moved: the tile is not next to the empty slot."
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s\n", status, FormatBoard(n, resp.Positions))), nil
}

func (t *ToolServer) handleBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := t.svc.Board(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%dx%d board, solved: %v\n\n%s\n", u.GridSize, u.GridSize, u.IsSolved, FormatBoard(u.GridSize, u.Positions))
	return mcp.NewToolResultText(result), nil
}

// gridSizeOf recovers N from an N² board.
func gridSizeOf(positions []int) int {
	n := 1
	for n*n < len(positions) {
		n++
	}
	return n
}
