// File: acmedental/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"acmedental/calendly"
	"acmedental/config"
	"acmedental/services/booking"
	"acmedental/services/intelligence"
	"acmedental/services/knowledge"
	"acmedental/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx := context.Background()

	// Wire the services: cache -> client -> orchestrator -> agent.
	identityCache := calendly.NewIdentityCache()
	client := calendly.NewClient(calendly.DefaultBaseURL, config.AppConfig.CalendlyAPIToken, identityCache)

	knowledgeService, err := knowledge.NewDefaultKnowledgeService()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load knowledge base: %v", err)
	}

	bookingService := &booking.DefaultBookingService{
		API:        client,
		BookingURL: config.AppConfig.CalendlyURL,
		Logger:     logger,
	}

	toolSurface := &intelligence.ToolSurface{
		Booking:   bookingService,
		Knowledge: knowledgeService,
	}

	agent, err := intelligence.NewGeminiAgent(ctx, config.AppConfig.GeminiAPIKey, toolSurface)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize agent: %v", err)
	}
	defer agent.Close()

	runREPL(ctx, agent)
}

func runREPL(ctx context.Context, agent intelligence.Agent) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Welcome to Acme Dental AI Booking Assistant")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println("Hello! I'm here to help you book a dental checkup appointment.")
	fmt.Println("Type 'exit', 'quit', or 'q' to end the conversation")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			fmt.Println("\nThank you for using Acme Dental booking assistant. Goodbye!")
			return
		case "":
			continue
		}

		reply, err := agent.Converse(ctx, input)
		if err != nil {
			fmt.Printf("\nError: %v\n\n", err)
			fmt.Println("Please try again or type 'exit' to quit.")
			fmt.Println()
			continue
		}
		if reply == "" {
			fmt.Println("\nAgent: I apologize, but I couldn't generate a response. Please try again.")
			fmt.Println()
			continue
		}
		fmt.Printf("\nAgent: %s\n\n", reply)
	}
}
