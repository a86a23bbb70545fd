// Package main issues bearer tokens for local development, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"anoa.com/advisoryhub/internal/bootstrap"
	"anoa.com/advisoryhub/internal/config"
	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/middleware"
	"github.com/google/uuid"
)

func main() {
	var subject, role string
	var ttl time.Duration
	var list bool

	flag.StringVar(&subject, "sub", "", "user id (default: a new random id)")
	flag.StringVar(&role, "role", "student", "role: student, teacher or admin")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flag.BoolVar(&list, "list", false, "list the seeded directory ids")
	flag.Parse()

	if list {
		fmt.Println("Students:")
		for _, s := range bootstrap.SeedStudents() {
			fmt.Printf("  %s  %s\n", s.ID, s.FullName)
		}
		fmt.Println("Teachers:")
		for _, t := range bootstrap.SeedTeachers() {
			fmt.Printf("  %s  %s\n", t.ID, t.FullName)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	parsedRole, err := entity.ParseRole(role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	id := uuid.New()
	if subject != "" {
		id, err = uuid.Parse(subject)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -sub: %v\n", err)
			os.Exit(1)
		}
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, cfg.JWTIssuer, entity.Actor{ID: id, Role: parsedRole}, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
