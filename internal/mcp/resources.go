// ABOUTME: MCP resource implementations for the calorie ledger.
// ABOUTME: Provides calories://today, calories://foods, and calories://activities resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI      = "calories://today"
	foodsURI      = "calories://foods"
	activitiesURI = "calories://activities"
)

func (s *Server) registerResources() {
	// calories://today - today's entries and summary
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Calories",
		Description: "Today's food and activity entries with totals against the daily goal",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         foodsURI,
		Name:        "Food Catalog",
		Description: "All foods in the catalog, newest first",
		MIMEType:    "application/json",
	}, s.handleFoodsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         activitiesURI,
		Name:        "Activity Catalog",
		Description: "All activities in the catalog, newest first",
		MIMEType:    "application/json",
	}, s.handleActivitiesResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	day, err := s.ledger.Day(s.user.ID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load today: %w", err)
	}
	return jsonResource(todayURI, day)
}

func (s *Server) handleFoodsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	foods, err := s.repo.ListFoods(s.user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	return jsonResource(foodsURI, map[string]interface{}{
		"foods": foods,
		"count": len(foods),
	})
}

func (s *Server) handleActivitiesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	activities, err := s.repo.ListActivities(s.user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return jsonResource(activitiesURI, map[string]interface{}{
		"activities": activities,
		"count":      len(activities),
	})
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
