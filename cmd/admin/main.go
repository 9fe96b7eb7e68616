package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"strife/backend/internal/config"
	"strife/backend/internal/conversation"
	"strife/backend/internal/models"
	"strife/backend/internal/storage"
)

const usage = `Usage: admin <command> [args]

Commands:
  create-user <username>           register a user and print its ID
  list-conversations <user_id>     list a user's conversations
  delete-conversation <id>         delete a conversation regardless of participants`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("STRIFE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := storage.OpenPostgres(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// Redis is only used to announce deletions to connected clients.
	rdb, err := storage.OpenRedis(context.Background(), cfg.Redis)
	if err != nil {
		log.Fatal(err)
	}
	storageSvc := storage.NewStorageService(db, rdb)

	var publisher conversation.Publisher
	if rdb != nil {
		publisher = storageSvc
	}
	conversations := conversation.NewService(storageSvc, publisher, nil)

	command := os.Args[1]

	switch command {
	case "create-user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin create-user <username>")
			os.Exit(1)
		}
		user, err := createUser(storageSvc, os.Args[2])
		if err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("User %s created with ID %s.\n", user.Username, user.ID)
	case "list-conversations":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin list-conversations <user_id>")
			os.Exit(1)
		}
		convs, err := conversations.List(os.Args[2])
		if err != nil {
			log.Fatalf("Error listing conversations: %v", err)
		}
		for _, c := range convs {
			fmt.Printf("%s\t%s\t%s\t%s\n", c.ID, c.User1ID, c.User2ID, c.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	case "delete-conversation":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-conversation <id>")
			os.Exit(1)
		}
		if err := conversations.ForceDelete(os.Args[2]); err != nil {
			log.Fatalf("Error deleting conversation: %v", err)
		}
		fmt.Printf("Conversation %s has been deleted.\n", os.Args[2])
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func createUser(s storage.Storage, username string) (*models.User, error) {
	user := &models.User{Username: username}
	if err := s.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
