package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"propfolio/internal/config"
	"propfolio/internal/domain"
	"propfolio/internal/service"
)

// token issues an API access token for a named operator. There is no login
// endpoint; tokens are minted offline and handed to the callers.
func main() {
	subject := flag.String("subject", "", "token subject (operator or integration name)")
	role := flag.String("role", string(domain.RoleOperator), "token role: operator or admin")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "Usage: token -subject NAME [-role operator|admin]")
		os.Exit(1)
	}

	userRole := domain.UserRole(*role)
	if userRole != domain.RoleOperator && userRole != domain.RoleAdmin {
		log.Fatalf("invalid role: %s", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	authService := service.NewAuthService(cfg.JWT)
	issued, err := authService.IssueToken(*subject, userRole)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Println(issued.Token)
	fmt.Fprintf(os.Stderr, "subject=%s role=%s expires=%s\n", *subject, userRole, issued.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
}
