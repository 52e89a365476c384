package handler

import (
	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

type roleRequest struct {
	Role string `json:"role" form:"role"`
}

type statusRequest struct {
	IsActive *bool `json:"isActive" form:"isActive"`
}

type ownerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type recordWithOwner struct {
	*domain.Record
	Owner ownerSummary `json:"owner"`
}

type dashboardCounts struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	VerifiedUsers int64 `json:"verified_users"`
	TotalRecords  int64 `json:"total_data"`
}

type dashboardResponse struct {
	Stats       dashboardCounts   `json:"stats"`
	RecentUsers []*domain.User    `json:"recent_users"`
	RecentData  []recordWithOwner `json:"recent_data"`
}

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalUsers int64 `json:"total_users"`
	TotalPages int   `json:"total_pages"`
}

type userListResponse struct {
	Users      []*domain.User `json:"users"`
	Pagination pagination     `json:"pagination"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type statsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	ActiveUsers      int64 `json:"active_users"`
	VerifiedUsers    int64 `json:"verified_users"`
	AdminUsers       int64 `json:"admin_users"`
	TotalRecords     int64 `json:"total_data"`
	UsersThisMonth   int64 `json:"users_this_month"`
	RecordsThisMonth int64 `json:"data_this_month"`
}

func toDashboardResponse(d *ports.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Stats: dashboardCounts{
			TotalUsers:    d.TotalUsers,
			ActiveUsers:   d.ActiveUsers,
			VerifiedUsers: d.VerifiedUsers,
			TotalRecords:  d.TotalRecords,
		},
		RecentUsers: d.RecentUsers,
		RecentData:  make([]recordWithOwner, 0, len(d.RecentRecords)),
	}
	if resp.RecentUsers == nil {
		resp.RecentUsers = []*domain.User{}
	}
	for _, r := range d.RecentRecords {
		resp.RecentData = append(resp.RecentData, recordWithOwner{
			Record: r.Record,
			Owner:  ownerSummary{Name: r.OwnerName, Email: r.OwnerEmail},
		})
	}
	return resp
}
