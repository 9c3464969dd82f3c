package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"docspace/internal/config"
	"docspace/internal/domain"
	"docspace/internal/domain/models"
	"docspace/internal/repository/postgres"
	"docspace/internal/service/access"
	"docspace/internal/spaces"
)

func main() {
	userFlag := flag.String("user", "", "user ID or username to resolve for (required)")
	folderFlag := flag.String("folder", "", "folder ID to resolve against")
	documentFlag := flag.String("document", "", "document ID to resolve against")
	actionFlag := flag.String("action", "", "check a permission: read or write")
	roleFlag := flag.Bool("role", false, "print the user's effective role on the resource")
	reportFlag := flag.Bool("report", false, "print the user's full cross-resource permission report")
	spacesFlag := flag.Bool("spaces", false, "print the fixed space container definitions and exit")
	flag.Parse()

	if *spacesFlag {
		registry, err := spaces.NewRegistry()
		if err != nil {
			log.Fatalf("Failed to load space registry: %v", err)
		}
		printJSON(registry.All())
		return
	}

	if *userFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logOut := os.Stderr
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoCfg := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoCfg)
	deptRepo := postgres.NewDepartmentRepository(repoCfg)
	folderRepo := postgres.NewFolderRepository(repoCfg)
	docRepo := postgres.NewDocumentRepository(repoCfg)
	collabRepo := postgres.NewCollaboratorRepository(repoCfg)
	projectRepo := postgres.NewProjectRepository(repoCfg)
	memberRepo := postgres.NewProjectMemberRepository(repoCfg)

	engine := access.NewEngine(folderRepo, deptRepo, collabRepo, projectRepo, memberRepo, logger)
	reporter := access.NewReporter(engine, folderRepo, docRepo, deptRepo, collabRepo, memberRepo, projectRepo, userRepo, logger)

	user, err := lookupUser(ctx, userRepo, *userFlag)
	if err != nil {
		log.Fatalf("Failed to resolve user %q: %v", *userFlag, err)
	}

	switch {
	case *reportFlag:
		report, err := reporter.PermissionReport(ctx, user)
		if err != nil {
			log.Fatalf("Failed to build permission report: %v", err)
		}
		printJSON(map[string]any{
			"user":      user.Username,
			"resources": report,
		})

	case *actionFlag != "":
		action, err := parseAction(*actionFlag)
		if err != nil {
			log.Fatalf("%v", err)
		}
		resource, err := lookupResource(ctx, folderRepo, docRepo, *folderFlag, *documentFlag)
		if err != nil {
			log.Fatalf("Failed to resolve resource: %v", err)
		}
		printJSON(map[string]any{
			"user":    user.Username,
			"action":  action,
			"allowed": engine.CheckPermission(ctx, user, resource, action),
		})

	case *roleFlag:
		resource, err := lookupResource(ctx, folderRepo, docRepo, *folderFlag, *documentFlag)
		if err != nil {
			log.Fatalf("Failed to resolve resource: %v", err)
		}
		printJSON(map[string]any{
			"user": user.Username,
			"role": engine.EffectiveRole(ctx, user, resource).String(),
		})

	default:
		fmt.Fprintln(os.Stderr, "one of -action, -role or -report is required")
		flag.Usage()
		os.Exit(2)
	}
}

// lookupUser accepts a user ID first, falling back to username so the
// tool works with whichever identifier an operator has at hand.
func lookupUser(ctx context.Context, users interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}, ref string) (*models.User, error) {
	user, err := users.GetByID(ctx, ref)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return users.GetByUsername(ctx, ref)
}

func lookupResource(ctx context.Context, folders interface {
	GetByID(ctx context.Context, id string) (*models.Folder, error)
}, docs interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
}, folderID, documentID string) (models.Resource, error) {
	switch {
	case folderID != "" && documentID != "":
		return nil, fmt.Errorf("pass either -folder or -document, not both")
	case folderID != "":
		return folders.GetByID(ctx, folderID)
	case documentID != "":
		return docs.GetByID(ctx, documentID)
	}
	return nil, fmt.Errorf("a -folder or -document ID is required")
}

func parseAction(s string) (models.Action, error) {
	switch s {
	case "read":
		return models.ActionRead, nil
	case "write":
		return models.ActionWrite, nil
	}
	return models.Action(""), fmt.Errorf("unknown action %q: use read or write", s)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(out))
}
