// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, resource handlers, and a client round trip.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/calories/internal/bytestore"
	"github.com/harperreed/calories/internal/ledger"
	"github.com/harperreed/calories/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// setupTestServer builds a server over an in-memory store.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	logger := log.New(io.Discard)
	clock := func() time.Time { return testNow }
	repo := storage.New(bytestore.NewMemory(), storage.WithLogger(logger), storage.WithClock(clock))
	t.Cleanup(func() { _ = repo.Close() })

	user, err := repo.EnsureUser("a@x.com")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	server, err := NewServer(repo, ledger.New(repo, clock), user, logger)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
}

func TestNewServerRequiresUser(t *testing.T) {
	repo := storage.New(bytestore.NewMemory(), storage.WithLogger(log.New(io.Discard)))
	if _, err := NewServer(repo, ledger.New(repo, nil), nil, nil); err == nil {
		t.Error("Expected error for missing user")
	}
}

func TestHandleAddFood(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addFoodInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "valid food",
			input: addFoodInput{Name: "Apple", CaloriesPerServing: 95},
		},
		{
			name:  "food with serving and category",
			input: addFoodInput{Name: "Milk", CaloriesPerServing: 120, ServingSize: "1 cup", Category: "Beverages"},
		},
		{
			name:      "missing name",
			input:     addFoodInput{CaloriesPerServing: 10},
			wantErr:   true,
			errSubstr: "name is required",
		},
		{
			name:      "negative calories",
			input:     addFoodInput{Name: "Bad", CaloriesPerServing: -1},
			wantErr:   true,
			errSubstr: "invalid input",
		},
		{
			name:      "unknown category",
			input:     addFoodInput{Name: "Bad", CaloriesPerServing: 1, Category: "Brunch"},
			wantErr:   true,
			errSubstr: "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAddFood(ctx, nil, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q does not contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Food == nil || out.Food.Name != tt.input.Name {
				t.Errorf("Food mismatch: got %+v", out.Food)
			}
		})
	}
}

func TestHandleFoodLifecycle(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, added, err := server.handleAddFood(ctx, nil, addFoodInput{Name: "Apple", CaloriesPerServing: 95})
	if err != nil {
		t.Fatalf("handleAddFood failed: %v", err)
	}
	prefix := added.Food.ID[:8]

	cal := 80.0
	_, updated, err := server.handleUpdateFood(ctx, nil, updateFoodInput{ID: prefix, CaloriesPerServing: &cal})
	if err != nil {
		t.Fatalf("handleUpdateFood failed: %v", err)
	}
	if updated.Food.CaloriesPerServing != 80 || updated.Food.Name != "Apple" {
		t.Errorf("Update mismatch: got %+v", updated.Food)
	}

	_, list, err := server.handleListFoods(ctx, nil, emptyInput{})
	if err != nil {
		t.Fatalf("handleListFoods failed: %v", err)
	}
	if list.Count != 1 {
		t.Errorf("Count mismatch: got %d, want 1", list.Count)
	}

	if _, _, err := server.handleDeleteFood(ctx, nil, idInput{ID: prefix}); err != nil {
		t.Fatalf("handleDeleteFood failed: %v", err)
	}
	_, list, _ = server.handleListFoods(ctx, nil, emptyInput{})
	if list.Count != 0 || list.Foods == nil {
		t.Errorf("Expected empty non-nil list, got %+v", list)
	}

	if _, _, err := server.handleDeleteFood(ctx, nil, idInput{ID: prefix}); !errors.Is(err, ledger.ErrFoodNotFound) {
		t.Errorf("Second delete error = %v, want ErrFoodNotFound", err)
	}
}

func TestHandleActivityLifecycle(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, added, err := server.handleAddActivity(ctx, nil, addActivityInput{Name: "Running", CaloriesPerMinute: 11})
	if err != nil {
		t.Fatalf("handleAddActivity failed: %v", err)
	}

	name := "Trail Running"
	_, updated, err := server.handleUpdateActivity(ctx, nil, updateActivityInput{ID: added.Activity.ID, Name: &name})
	if err != nil {
		t.Fatalf("handleUpdateActivity failed: %v", err)
	}
	if updated.Activity.Name != name {
		t.Errorf("Name mismatch: got %q, want %q", updated.Activity.Name, name)
	}

	_, list, _ := server.handleListActivities(ctx, nil, emptyInput{})
	if list.Count != 1 {
		t.Errorf("Count mismatch: got %d, want 1", list.Count)
	}

	if _, _, err := server.handleDeleteActivity(ctx, nil, idInput{ID: added.Activity.ID}); err != nil {
		t.Fatalf("handleDeleteActivity failed: %v", err)
	}
}

func TestHandleLogAndSummary(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, food, _ := server.handleAddFood(ctx, nil, addFoodInput{Name: "Toast", CaloriesPerServing: 100})
	_, act, _ := server.handleAddActivity(ctx, nil, addActivityInput{Name: "Walk", CaloriesPerMinute: 4})

	_, logged, err := server.handleLogFood(ctx, nil, logFoodInput{FoodID: food.Food.ID, Portions: 3})
	if err != nil {
		t.Fatalf("handleLogFood failed: %v", err)
	}
	if logged.Entry.Calories != 300 || logged.Entry.MealType != DefaultMealType {
		t.Errorf("Entry mismatch: %+v", logged.Entry)
	}

	if _, _, err := server.handleLogActivity(ctx, nil, logActivityInput{ActivityID: act.Activity.ID, DurationMinutes: 25}); err != nil {
		t.Fatalf("handleLogActivity failed: %v", err)
	}

	if _, _, err := server.handleSetGoal(ctx, nil, setGoalInput{DailyCalorieGoal: 1600}); err != nil {
		t.Fatalf("handleSetGoal failed: %v", err)
	}
	if _, _, err := server.handleSetGoal(ctx, nil, setGoalInput{DailyCalorieGoal: 0}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Zero goal error = %v, want ErrInvalidInput", err)
	}

	_, summary, err := server.handleGetSummary(ctx, nil, dateInput{})
	if err != nil {
		t.Fatalf("handleGetSummary failed: %v", err)
	}
	if summary.Goal != 1600 || summary.Consumed != 300 || summary.Burned != 100 || summary.Remaining != 1400 {
		t.Errorf("Summary mismatch: %+v", summary)
	}

	_, day, err := server.handleGetDay(ctx, nil, dateInput{Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("handleGetDay failed: %v", err)
	}
	if len(day.Meals) != 1 || len(day.Activities) != 1 {
		t.Errorf("Day mismatch: %d meals, %d activities", len(day.Meals), len(day.Activities))
	}

	if _, _, err := server.handleLogFood(ctx, nil, logFoodInput{FoodID: "nope", Portions: 1}); !errors.Is(err, ledger.ErrFoodNotFound) {
		t.Errorf("Unknown food error = %v, want ErrFoodNotFound", err)
	}
}

func TestResources(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	_, _, _ = server.handleAddFood(ctx, nil, addFoodInput{Name: "Apple", CaloriesPerServing: 95})

	tests := []struct {
		name    string
		handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
		uri     string
		want    string
	}{
		{"today", server.handleTodayResource, todayURI, `"goal": 2000`},
		{"foods", server.handleFoodsResource, foodsURI, `"name": "Apple"`},
		{"activities", server.handleActivitiesResource, activitiesURI, `"count": 0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.handler(ctx, nil)
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if len(res.Contents) != 1 {
				t.Fatalf("Expected 1 content, got %d", len(res.Contents))
			}
			c := res.Contents[0]
			if c.URI != tt.uri || c.MIMEType != "application/json" {
				t.Errorf("Content header mismatch: %s %s", c.URI, c.MIMEType)
			}
			if !strings.Contains(c.Text, tt.want) {
				t.Errorf("Content %q missing %q", c.Text, tt.want)
			}
		})
	}
}

func TestClientRoundTrip(t *testing.T) {
	server := setupTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server Connect failed: %v", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client Connect failed: %v", err)
	}
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_food",
		Arguments: map[string]any{"name": "Banana", "calories_per_serving": 105},
	})
	if err != nil {
		t.Fatalf("CallTool add_food failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("add_food returned a tool error: %+v", res.Content)
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "get_day", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool get_day failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("get_day returned a tool error: %+v", res.Content)
	}
	raw, _ := json.Marshal(res.StructuredContent)
	if !strings.Contains(string(raw), `"goal":2000`) {
		t.Errorf("get_day output missing goal: %s", raw)
	}

	read, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: foodsURI})
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if !strings.Contains(read.Contents[0].Text, "Banana") {
		t.Errorf("foods resource missing Banana: %s", read.Contents[0].Text)
	}
}
