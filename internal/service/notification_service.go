package service

import (
	"encoding/json"
	"fmt"

	"dripfit/internal/domain"
	"dripfit/internal/models"
	"dripfit/internal/repository"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	return s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
}

func (s *NotificationService) NotifyChallengeCompleted(userID, challengeID uint, name string, bounty int64) error {
	return s.Notify(userID, domain.NotifChallengeCompleted, "Challenge complete",
		fmt.Sprintf("You finished %s and earned %d drops", name, bounty),
		map[string]interface{}{"challenge_id": challengeID, "bounty": bounty})
}

func (s *NotificationService) NotifyRedemptionConfirmed(userID, redemptionID uint) error {
	return s.Notify(userID, domain.NotifRedemptionConfirmed, "Reward collected",
		"Your reward redemption was confirmed at the front desk",
		map[string]interface{}{"redemption_id": redemptionID})
}

func (s *NotificationService) NotifyRedemptionCancelled(userID, redemptionID uint) error {
	return s.Notify(userID, domain.NotifRedemptionCancelled, "Redemption cancelled",
		"Your redemption was cancelled and the drops were refunded",
		map[string]interface{}{"redemption_id": redemptionID})
}
