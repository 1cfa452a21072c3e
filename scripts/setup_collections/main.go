package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultEndpoint = "https://syd.cloud.appwrite.io/v1"

var httpClient = &http.Client{Timeout: 10 * time.Second}

func main() {
	fmt.Println("🚀 Appwrite Collection Setup Script")
	fmt.Println("===================================")

	// Load .env file if exists
	godotenv.Load()

	endpoint := getEnv("APPWRITE_ENDPOINT", defaultEndpoint)
	project := getEnv("APPWRITE_PROJECT", "")
	key := getEnv("APPWRITE_API_KEY", "")
	databaseID := getEnv("APPWRITE_DATABASE_ID", "686db7ef003cad2f3703")
	collectionID := getEnv("APPWRITE_COLLECTION_ID", "686dbed2001341193519")

	fmt.Printf("Connecting to: %s\n", endpoint)

	if project == "" || key == "" {
		fmt.Println("❌ APPWRITE_PROJECT or APPWRITE_API_KEY not set")
		fmt.Println("\nPlease set:")
		fmt.Println("  export APPWRITE_PROJECT=your_project_id")
		fmt.Println("  export APPWRITE_API_KEY=your_server_key")
		os.Exit(1)
	}

	if err := checkHealth(endpoint, project, key); err != nil {
		fmt.Printf("❌ Cannot connect to Appwrite: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Connected")

	fmt.Printf("\n📦 Creating database: %s\n", databaseID)
	if err := createDatabase(endpoint, project, key, databaseID); err != nil {
		fmt.Printf("   ⚠️  %v\n", err)
	} else {
		fmt.Printf("   ✅ Created successfully\n")
	}

	fmt.Printf("\n📦 Creating collection: %s\n", collectionID)
	if err := createCollection(endpoint, project, key, databaseID, collectionID); err != nil {
		fmt.Printf("   ⚠️  %v\n", err)
	} else {
		fmt.Printf("   ✅ Created successfully\n")
	}

	for _, attr := range []string{"name", "email", "date", "timestamp"} {
		fmt.Printf("\n📦 Creating attribute: %s\n", attr)
		if err := createStringAttribute(endpoint, project, key, databaseID, collectionID, attr); err != nil {
			fmt.Printf("   ⚠️  %v\n", err)
		} else {
			fmt.Printf("   ✅ Created successfully\n")
		}
	}

	fmt.Println("\n🎉 Setup complete!")
}

func checkHealth(endpoint, project, key string) error {
	req, _ := http.NewRequest("GET", endpoint+"/health", nil)
	setHeaders(req, project, key)
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func createDatabase(endpoint, project, key, databaseID string) error {
	body := map[string]any{
		"databaseId": databaseID,
		"name":       "attendance",
	}
	return post(endpoint+"/databases", project, key, body)
}

func createCollection(endpoint, project, key, databaseID, collectionID string) error {
	body := map[string]any{
		"collectionId": collectionID,
		"name":         "attendance",
		"permissions":  []string{`read("users")`, `create("users")`},
	}
	return post(fmt.Sprintf("%s/databases/%s/collections", endpoint, databaseID), project, key, body)
}

func createStringAttribute(endpoint, project, key, databaseID, collectionID, attrKey string) error {
	body := map[string]any{
		"key":      attrKey,
		"size":     255,
		"required": false,
	}
	url := fmt.Sprintf("%s/databases/%s/collections/%s/attributes/string", endpoint, databaseID, collectionID)
	return post(url, project, key, body)
}

func post(url, project, key string, body map[string]any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", url, bytes.NewReader(data))
	setHeaders(req, project, key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s - %s", resp.Status, string(respBody))
	}
	return nil
}

func setHeaders(req *http.Request, project, key string) {
	req.Header.Set("X-Appwrite-Project", project)
	req.Header.Set("X-Appwrite-Key", key)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
