package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/stats"
	"github.com/claude/liftlog/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetLeaderboard = mcp.NewTool("get_leaderboard",
	mcp.WithDescription("Rank all users by number of logged workout days, descending. Rest days do not count; users with only rest days appear with a count of 0."),
)

var toolGetDayLog = mcp.NewTool("get_day_log",
	mcp.WithDescription("Retrieve one user's log for a single date: the log type (Rest or a template name) and the exercise entries with sets/reps/weight."),
	mcp.WithString("username", mcp.Required(), mcp.Description("Username (case-sensitive)")),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date (YYYY-MM-DD)")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Retrieve all of one user's day logs as a date-keyed map."),
	mcp.WithString("username", mcp.Required(), mcp.Description("Username (case-sensitive)")),
)

var toolGetConsistency = mcp.NewTool("get_consistency_summary",
	mcp.WithDescription("Workout/rest/missed day counts over a user's active date range (first to last logged date, inclusive). Empty if the user has no logs yet."),
	mcp.WithString("username", mcp.Required(), mcp.Description("Username (case-sensitive)")),
)

var toolGetMonthCalendar = mcp.NewTool("get_month_calendar",
	mcp.WithDescription("One cell per calendar date of a month: day state (Workout/Rest/Missed) and display label. Defaults to the current month."),
	mcp.WithString("username", mcp.Required(), mcp.Description("Username (case-sensitive)")),
	mcp.WithNumber("year", mcp.Description("Year (e.g. 2024). Defaults to the current year.")),
	mcp.WithNumber("month", mcp.Description("Month 1-12. Defaults to the current month.")),
)

// --- Tool handlers ---

func (h *handlers) getLeaderboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logs, err := h.store.ListAll(ctx)
	if err != nil {
		h.log.Error("mcp get_leaderboard", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats.Leaderboard(logs))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDayLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username parameter is required"), nil
	}
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}

	log, err := h.store.Get(ctx, username, date)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultText("no log for this user and date"), nil
	}
	if err != nil {
		h.log.Error("mcp get_day_log", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(log)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username parameter is required"), nil
	}

	hist, err := h.userHistory(ctx, username)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(hist)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getConsistency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username parameter is required"), nil
	}

	hist, err := h.userHistory(ctx, username)
	if err != nil {
		h.log.Error("mcp get_consistency_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	summary, err := stats.Consistency(hist)
	if err != nil {
		return mcp.NewToolResultError("summary failed: " + err.Error()), nil
	}
	if summary == nil {
		return mcp.NewToolResultText("no logs yet for this user"), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMonthCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username parameter is required"), nil
	}

	now := time.Now()
	year := req.GetInt("year", now.Year())
	month := req.GetInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		return mcp.NewToolResultError("month must be between 1 and 12"), nil
	}

	hist, err := h.userHistory(ctx, username)
	if err != nil {
		h.log.Error("mcp get_month_calendar", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history.MonthGrid(hist, year, time.Month(month)))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) userHistory(ctx context.Context, username string) (history.History, error) {
	return h.hist.UserHistory(ctx, username)
}
