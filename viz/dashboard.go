// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarizes the pipeline, lead funnel, and open activities as ASCII
package viz

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
)

type DashboardStats struct {
	Totals map[models.Kind]int `json:"totals"`

	PipelineByStage map[models.DealStage]PipelineStageStats `json:"pipelineByStage"`
	LeadsByStatus   map[models.LeadStatus]int               `json:"leadsByStatus"`

	OpenActivities    int           `json:"openActivities"`
	OverdueActivities []OverdueItem `json:"overdueActivities"`
	StaleDeals        []StaleDeal   `json:"staleDeals"`
	GeneratedAt       time.Time     `json:"generatedAt"`
}

type PipelineStageStats struct {
	Stage models.DealStage `json:"stage"`
	Count int              `json:"count"`
	Value float64          `json:"value"`
}

type OverdueItem struct {
	Title    string    `json:"title"`
	DueDate  time.Time `json:"dueDate"`
	Priority string    `json:"priority"`
}

type StaleDeal struct {
	Title     string `json:"title"`
	DaysSince int    `json:"daysSince"`
}

const staleDealDays = 14

func isOpenStage(s models.DealStage) bool {
	return s != models.StageClosedWon && s != models.StageClosedLost
}

func isOpenActivity(s models.ActivityStatus) bool {
	return s == models.ActivityPending || s == models.ActivityInProgress
}

// GenerateDashboardStats aggregates every table as of now.
func GenerateDashboardStats(ctx context.Context, database *sql.DB, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{
		Totals:          make(map[models.Kind]int),
		PipelineByStage: make(map[models.DealStage]PipelineStageStats),
		LeadsByStatus:   make(map[models.LeadStatus]int),
		GeneratedAt:     now,
	}

	for _, k := range models.Kinds {
		records, err := db.ListRecords(ctx, database, k)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", k.Table(), err)
		}
		stats.Totals[k] = len(records)

		for _, rec := range records {
			switch r := rec.(type) {
			case *models.Deal:
				p := stats.PipelineByStage[r.Stage]
				p.Stage = r.Stage
				p.Count++
				p.Value += r.Value
				stats.PipelineByStage[r.Stage] = p

				daysSince := int(now.Sub(r.UpdatedAt).Hours() / 24)
				if isOpenStage(r.Stage) && daysSince > staleDealDays {
					stats.StaleDeals = append(stats.StaleDeals, StaleDeal{Title: r.Title, DaysSince: daysSince})
				}
			case *models.Lead:
				stats.LeadsByStatus[r.Status]++
			case *models.Activity:
				if !isOpenActivity(r.Status) {
					continue
				}
				stats.OpenActivities++
				if r.DueDate != nil && r.DueDate.Before(now) {
					stats.OverdueActivities = append(stats.OverdueActivities, OverdueItem{
						Title:    r.Title,
						DueDate:  *r.DueDate,
						Priority: string(r.Priority),
					})
				}
			}
		}
	}

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  CRM DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStage)
	out.WriteString("\n")

	out.WriteString("LEAD FUNNEL\n")
	for _, status := range models.LeadStatuses {
		if n := stats.LeadsByStatus[status]; n > 0 {
			out.WriteString(fmt.Sprintf("  %-13s %d\n", status, n))
		}
	}
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  👤 %d users  📇 %d contacts  🏢 %d companies  💼 %d deals\n",
		stats.Totals[models.KindUser], stats.Totals[models.KindContact],
		stats.Totals[models.KindCompany], stats.Totals[models.KindDeal]))
	out.WriteString(fmt.Sprintf("  🎯 %d leads  📅 %d activities (%d open)  📝 %d notes\n\n",
		stats.Totals[models.KindLead], stats.Totals[models.KindActivity],
		stats.OpenActivities, stats.Totals[models.KindNote]))

	if len(stats.OverdueActivities) > 0 || len(stats.StaleDeals) > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if len(stats.OverdueActivities) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d activities overdue\n", len(stats.OverdueActivities)))
		}

		if len(stats.StaleDeals) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d deals - stale (no update in %d+ days)\n", len(stats.StaleDeals), staleDealDays))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline map[models.DealStage]PipelineStageStats) {
	maxCount := 0
	for _, pstats := range pipeline {
		if pstats.Count > maxCount {
			maxCount = pstats.Count
		}
	}
	if maxCount == 0 {
		out.WriteString("  (no deals)\n")
		return
	}

	for _, stage := range models.DealStages {
		pstats, exists := pipeline[stage]
		if !exists {
			continue
		}

		// 0-10 blocks
		barLength := (pstats.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-13s %s  %2d ($%.1fK)\n",
			stage, bar, pstats.Count, pstats.Value/1000))
	}
}
