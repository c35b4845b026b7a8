// Package mcpserver exposes rankings and the draft to MCP clients such as
// LLM assistants.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/league"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

const defaultRankingsLimit = 25

// Server wraps an MCP server whose tools read and drive the league
type Server struct {
	svc       *league.Service
	mcpServer *mcp.Server
}

// New registers every tool against svc
func New(svc *league.Service, version string) *Server {
	s := &Server{
		svc: svc,
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "hockey-draft-kit",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server, e.g. to run it over stdio
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Handler serves the tools over streamable HTTP with plain JSON responses
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

type RankingsArgs struct {
	Available bool   `json:"available,omitempty" jsonschema:"Only players nobody has drafted yet"`
	Position  string `json:"position,omitempty" jsonschema:"Only players eligible at this position: C, LW, RW, D or G"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum players to return (default 25)"`
}

type SelectPlayerArgs struct {
	PlayerKey  string `json:"player_key" jsonschema:"Key of the player to draft, as returned by rankings"`
	PickNumber int    `json:"pick_number,omitempty" jsonschema:"If set, only draft when this pick is on the clock"`
}

type TeamRosterArgs struct {
	TeamID *int `json:"team_id,omitempty" jsonschema:"Team id (defaults to the user's team)"`
}

type NoArgs struct{}

// rankedPlayer is the compact player view returned to assistants
type rankedPlayer struct {
	Rank                 int      `json:"rank"`
	Key                  string   `json:"key"`
	Name                 string   `json:"name"`
	Team                 string   `json:"team"`
	Position             string   `json:"position"`
	ValueOverReplacement float64  `json:"value_over_replacement"`
	FantasyValue         float64  `json:"fantasy_value"`
	AverageDraftPosition *float64 `json:"adp"`
}

func compact(players []models.ValuedPlayer) []rankedPlayer {
	out := make([]rankedPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, rankedPlayer{
			Rank:                 p.Rank,
			Key:                  p.Key,
			Name:                 p.Name,
			Team:                 p.Team,
			Position:             p.Position,
			ValueOverReplacement: p.ValueOverReplacement,
			FantasyValue:         p.FantasyValue,
			AverageDraftPosition: p.AverageDraftPosition,
		})
	}
	return out
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rankings",
		Description: "Players ranked by value over replacement for the current league settings",
	}, s.rankings)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "draft_state",
		Description: "Draft status, the pick on the clock and how many picks until the user's team selects",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
		snap := s.svc.Snapshot()
		return toolJSON(map[string]any{
			"status":       snap.Draft.Status,
			"session_id":   snap.Draft.SessionID,
			"board":        snap.Board,
			"total_picks":  snap.Draft.TotalPicks,
			"rounds":       snap.Draft.Rounds,
			"user_team_id": snap.UserTeamID,
			"teams":        snap.Teams,
		}), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "select_player",
		Description: "Draft a player for the team on the clock",
	}, s.selectPlayer)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "expected_picks",
		Description: "Players likely to be taken before the user's team picks again, best first",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(map[string]any{"players": compact(s.svc.ExpectedPicks())}), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "team_roster",
		Description: "A team's drafted players slotted into roster positions",
	}, s.teamRoster)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "standings",
		Description: "Projected category totals and value for every team's picks",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(map[string]any{"standings": s.svc.Standings()}), nil, nil
	})
}

func (s *Server) rankings(ctx context.Context, req *mcp.CallToolRequest, args RankingsArgs) (*mcp.CallToolResult, any, error) {
	players := s.svc.Rankings()
	if args.Available {
		players = s.svc.Available()
	}

	if args.Position != "" {
		want := models.ParsePositions(args.Position)
		if want.Empty() {
			return toolError(fmt.Errorf("unknown position %q", args.Position)), nil, nil
		}
		filtered := players[:0]
		for _, p := range players {
			if models.ParsePositions(p.Position).Has(want) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultRankingsLimit
	}
	if limit < len(players) {
		players = players[:limit]
	}

	return toolJSON(map[string]any{"players": compact(players)}), nil, nil
}

func (s *Server) selectPlayer(ctx context.Context, req *mcp.CallToolRequest, args SelectPlayerArgs) (*mcp.CallToolResult, any, error) {
	if args.PlayerKey == "" {
		return toolError(fmt.Errorf("player_key is required")), nil, nil
	}

	var (
		pick models.DraftPick
		err  error
	)
	if args.PickNumber > 0 {
		pick, err = s.svc.SelectPlayerAt(ctx, args.PickNumber, args.PlayerKey)
	} else {
		pick, err = s.svc.SelectPlayer(ctx, args.PlayerKey)
	}
	if err != nil {
		logger.Debug("MCP: select_player rejected", "player_key", args.PlayerKey, "error", err)
		return toolError(err), nil, nil
	}

	return toolJSON(map[string]any{
		"pick_number": pick.PickNumber,
		"round":       pick.Round,
		"team":        pick.Team,
		"player":      compact([]models.ValuedPlayer{*pick.PlayerSelected})[0],
	}), nil, nil
}

func (s *Server) teamRoster(ctx context.Context, req *mcp.CallToolRequest, args TeamRosterArgs) (*mcp.CallToolResult, any, error) {
	teamID := s.svc.Settings().UserTeamID
	if args.TeamID != nil {
		teamID = *args.TeamID
	}

	roster, err := s.svc.Roster(teamID)
	if err != nil {
		return toolError(err), nil, nil
	}

	slots := make(map[string][]rankedPlayer, len(roster))
	for group, players := range roster {
		slots[group.Label()] = compact(players)
	}
	return toolJSON(map[string]any{"team_id": teamID, "roster": slots}), nil, nil
}

func toolJSON(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
