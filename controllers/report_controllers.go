package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/utils"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type dailySale struct {
	SaleDate     string          `json:"sale_date"`
	DailyRevenue decimal.Decimal `json:"daily_revenue"`
}

type popularItem struct {
	Name    string `json:"name"`
	SoldQty int    `json:"sold_qty"`
}

// GetDashboard -> GET /dashboard
// Today's sales and order count, growth against yesterday, a 7-day revenue
// chart and today's top five items.
func (rc *ReportController) GetDashboard(c *gin.Context) {
	now := time.Now()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	weekStart := now.AddDate(0, 0, -6).Format("2006-01-02")

	type dayTotals struct {
		Total decimal.Decimal
		Count int
	}
	var todayTotals, yesterdayTotals dayTotals

	const daySQL = `SELECT COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
		FROM transactions WHERE DATE(created_at) = ?`
	if err := rc.DB.Raw(daySQL, today).Scan(&todayTotals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := rc.DB.Raw(daySQL, yesterday).Scan(&yesterdayTotals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	growth := 0.0
	if yesterdayTotals.Total.IsPositive() {
		diff := todayTotals.Total.Sub(yesterdayTotals.Total)
		growth, _ = diff.Div(yesterdayTotals.Total).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	} else if todayTotals.Total.IsPositive() {
		growth = 100
	}

	var chart []dailySale
	if err := rc.DB.Raw(`SELECT DATE(created_at) AS sale_date, COALESCE(SUM(total), 0) AS daily_revenue
		FROM transactions
		WHERE DATE(created_at) >= ?
		GROUP BY DATE(created_at)
		ORDER BY sale_date ASC`, weekStart).Scan(&chart).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var popular []popularItem
	if err := rc.DB.Raw(`SELECT m.name AS name, SUM(ti.qty) AS sold_qty
		FROM transaction_items ti
		JOIN transactions t ON ti.transaction_id = t.id
		JOIN menus m ON ti.menu_id = m.id
		WHERE DATE(t.created_at) = ?
		GROUP BY ti.menu_id, m.name
		ORDER BY sold_qty DESC
		LIMIT 5`, today).Scan(&popular).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"sales_today":    todayTotals.Total,
		"orders_today":   todayTotals.Count,
		"growth_percent": growth,
		"weekly_chart":   chart,
		"popular_items":  popular,
	})
}

// resolveRange turns a preset (today, 7d, 30d, custom) into a date interval.
func resolveRange(preset, startInput, endInput string) (string, string) {
	now := time.Now()
	end := now.Format("2006-01-02")

	switch preset {
	case "today":
		return end, end
	case "30d":
		return now.AddDate(0, 0, -29).Format("2006-01-02"), end
	case "custom":
		if startInput != "" && endInput != "" {
			if _, err := time.Parse("2006-01-02", startInput); err == nil {
				if _, err := time.Parse("2006-01-02", endInput); err == nil {
					return startInput, endInput
				}
			}
		}
		fallthrough
	default: // 7d
		return now.AddDate(0, 0, -6).Format("2006-01-02"), end
	}
}

// GetReport -> GET /reports?range=7d&operator_id=&limit=
func (rc *ReportController) GetReport(c *gin.Context) {
	preset := c.DefaultQuery("range", "7d")
	startDate, endDate := resolveRange(preset, c.Query("start_date"), c.Query("end_date"))

	var operatorID *int
	if opStr := c.Query("operator_id"); opStr != "" {
		op, err := strconv.Atoi(opStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid operator_id"))
			return
		}
		operatorID = &op
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	if limit < 5 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	start := startDate + " 00:00:00"
	end := endDate + " 23:59:59"

	type metrics struct {
		TotalRevenue      decimal.Decimal `json:"total_revenue"`
		TotalTransactions int             `json:"total_transactions"`
	}
	var m metrics

	metricsSQL := `SELECT COALESCE(SUM(total), 0) AS total_revenue, COUNT(id) AS total_transactions
		FROM transactions WHERE created_at BETWEEN ? AND ?`
	metricsArgs := []interface{}{start, end}
	if operatorID != nil {
		metricsSQL += " AND user_id = ?"
		metricsArgs = append(metricsArgs, *operatorID)
	}
	if err := rc.DB.Raw(metricsSQL, metricsArgs...).Scan(&m).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type bestSeller struct {
		Name         string `json:"name"`
		TotalQtySold int    `json:"total_qty_sold"`
	}
	var best bestSeller
	bestSQL := `SELECT m.name AS name, SUM(ti.qty) AS total_qty_sold
		FROM transaction_items ti
		JOIN menus m ON ti.menu_id = m.id
		JOIN transactions t ON ti.transaction_id = t.id
		WHERE t.created_at BETWEEN ? AND ?`
	bestArgs := []interface{}{start, end}
	if operatorID != nil {
		bestSQL += " AND t.user_id = ?"
		bestArgs = append(bestArgs, *operatorID)
	}
	bestSQL += " GROUP BY ti.menu_id, m.name ORDER BY total_qty_sold DESC LIMIT 1"
	if err := rc.DB.Raw(bestSQL, bestArgs...).Scan(&best).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if best.Name == "" {
		best.Name = "N/A"
	}

	var daily []dailySale
	dailySQL := `SELECT DATE(created_at) AS sale_date, COALESCE(SUM(total), 0) AS daily_revenue
		FROM transactions WHERE created_at BETWEEN ? AND ?`
	dailyArgs := []interface{}{start, end}
	if operatorID != nil {
		dailySQL += " AND user_id = ?"
		dailyArgs = append(dailyArgs, *operatorID)
	}
	dailySQL += " GROUP BY DATE(created_at) ORDER BY sale_date ASC"
	if err := rc.DB.Raw(dailySQL, dailyArgs...).Scan(&daily).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type historyRow struct {
		TrxID     uint            `json:"trx_id"`
		Operator  string          `json:"operator"`
		Total     decimal.Decimal `json:"total"`
		CreatedAt time.Time       `json:"created_at"`
	}
	var history []historyRow
	historySQL := `SELECT t.id AS trx_id, u.full_name AS operator, t.total AS total, t.created_at AS created_at
		FROM transactions t
		JOIN users u ON t.user_id = u.id
		WHERE t.created_at BETWEEN ? AND ?`
	historyArgs := []interface{}{start, end}
	if operatorID != nil {
		historySQL += " AND t.user_id = ?"
		historyArgs = append(historyArgs, *operatorID)
	}
	historySQL += " ORDER BY t.id DESC LIMIT ?"
	historyArgs = append(historyArgs, limit)
	if err := rc.DB.Raw(historySQL, historyArgs...).Scan(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Sales report", gin.H{
		"filters": gin.H{
			"range": gin.H{
				"preset":     preset,
				"start_date": startDate,
				"end_date":   endDate,
			},
			"operator_id": operatorID,
		},
		"metrics": gin.H{
			"total_revenue":      m.TotalRevenue,
			"total_transactions": m.TotalTransactions,
			"best_seller_name":   best.Name,
			"best_seller_units":  best.TotalQtySold,
		},
		"daily_sales":         daily,
		"transaction_history": history,
	})
}
