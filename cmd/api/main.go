package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/staffsync/attendance-backend-go/internal/config"
	appHTTP "github.com/staffsync/attendance-backend-go/internal/handler/http"
	"github.com/staffsync/attendance-backend-go/internal/pkg/clock"
	"github.com/staffsync/attendance-backend-go/internal/pkg/cron"
	"github.com/staffsync/attendance-backend-go/internal/pkg/database"
	"github.com/staffsync/attendance-backend-go/internal/pkg/jwt"
	"github.com/staffsync/attendance-backend-go/internal/pkg/whatsapp"
	"github.com/staffsync/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/staffsync/attendance-backend-go/internal/service/attendance"
	authService "github.com/staffsync/attendance-backend-go/internal/service/auth"
	notificationService "github.com/staffsync/attendance-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "attendance-backend"),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	whatsappClient := whatsapp.NewClient(cfg.Twilio)

	notificationSvc := notificationService.NewService(
		notificationRepo,
		userRepo,
		whatsappClient,
		notificationService.Config{},
		logger,
	)
	defer notificationSvc.Stop()

	engine := attendanceService.NewService(
		userRepo,
		attendanceRepo,
		notificationSvc,
		clock.System(),
		cfg.Attendance,
		logger,
	)
	authSvc := authService.NewService(userRepo, engine, jwtService, logger)

	scheduler := cron.NewScheduler(logger)
	attendanceJobs := cron.NewAttendanceJobs(engine, notificationSvc, cfg.Attendance, clock.System(), logger)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(engine, clock.System(), cfg.Attendance)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc)

	router := appHTTP.NewRouter(cfg, jwtService, authHandler, attendanceHandler, notificationHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
