package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"flyerhub/pkg/config"
	"flyerhub/pkg/jwt"
	"flyerhub/pkg/logger"
)

// Seeds demo points activity through the running points service so local
// dashboards have something to show.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	jwtService := jwt.NewService(cfg.JWTSecret)
	baseURL := fmt.Sprintf("http://localhost:%s/api/v1", cfg.ServerPort)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	demoUsers := []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
		"33333333-3333-3333-3333-333333333333",
	}

	for _, userID := range demoUsers {
		token, err := jwtService.GenerateToken(userID, "viewer")
		if err != nil {
			log.Error("Failed to generate token for %s: %v", userID, err)
			continue
		}

		earns := []map[string]interface{}{
			{"reason": "profile_complete", "amount": 50},
			{"reason": "hub_setup", "amount": 25},
			{"reason": "flyer_view", "amount": 1, "reference_id": "a0000000-0000-0000-0000-00000000000a", "reference_type": "flyer"},
			{"reason": "flyer_click", "amount": 2, "reference_id": "a0000000-0000-0000-0000-00000000000a", "reference_type": "flyer"},
			{"reason": "campaign_bonus", "amount": 20, "description": "grand opening week"},
		}
		for _, body := range earns {
			if err := post(httpClient, baseURL+"/points/earn", token, body); err != nil {
				log.Error("Failed to seed earn for %s: %v", userID, err)
			}
		}

		if err := post(httpClient, baseURL+"/points/spend", token, map[string]interface{}{
			"reason": "premium_feature",
			"amount": 10,
		}); err != nil {
			log.Error("Failed to seed spend for %s: %v", userID, err)
		}

		log.Info("Seeded points activity for user %s", userID)
	}

	log.Info("Seeding complete")
}

func post(client *http.Client, url, token string, body map[string]interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}
