package dto

import model "task-board.com/task-board/pkg/models"

type CreatedResponse struct {
	ID string `json:"id"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type NotificationsResponse struct {
	Count         int                  `json:"count"`
	Unread        int                  `json:"unread"`
	Notifications []model.Notification `json:"notifications"`
}
