package main

import (
	"net/http"

	"outreach-portal/config"
	"outreach-portal/controllers"
	"outreach-portal/driver"
	"outreach-portal/middleware"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file, using process environment")
	}

	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		logrus.Fatal(err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	db, err := driver.ConnectDB(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer db.Close()

	if err := driver.Migrate(db, "migrations"); err != nil {
		logrus.Fatal(err)
	}

	sessions := middleware.NewSessionManager(cfg)

	auth := controllers.AuthController{Sessions: sessions}
	dashboard := controllers.DashboardController{}
	donate := controllers.DonateController{}
	participants := controllers.ParticipantController{}
	donations := controllers.DonationController{}
	surveys := controllers.SurveyController{}
	events := controllers.EventController{}
	milestones := controllers.MilestoneController{}
	users := controllers.UserController{}
	pictures := controllers.ProfilePictureController{Cfg: cfg, Sessions: sessions}

	loggedIn := middleware.RequireAuthenticated
	manager := middleware.RequireManager

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)
	router.Use(sessions.WithIdentity)
	router.NotFoundHandler = controllers.NotFoundHandler()

	router.HandleFunc("/login", auth.LoginForm()).Methods("GET")
	router.HandleFunc("/login", auth.Login(db)).Methods("POST")
	router.HandleFunc("/logout", auth.Logout()).Methods("GET")
	router.HandleFunc("/signup", auth.SignupForm()).Methods("GET")
	router.HandleFunc("/signup", auth.Signup(db)).Methods("POST")

	router.HandleFunc("/donate", donate.Form()).Methods("GET")
	router.HandleFunc("/donate", donate.Submit(db)).Methods("POST")
	router.HandleFunc("/donate/thanks", donate.Thanks()).Methods("GET")

	router.HandleFunc("/", loggedIn(dashboard.Show(db))).Methods("GET")
	router.HandleFunc("/dashboard", loggedIn(dashboard.Show(db))).Methods("GET")

	router.HandleFunc("/participants", loggedIn(participants.List(db))).Methods("GET")
	router.HandleFunc("/participants/add", manager(participants.AddForm())).Methods("GET")
	router.HandleFunc("/participants/add", manager(participants.Add(db))).Methods("POST")
	router.HandleFunc("/participants/edit/{id}", manager(participants.EditForm(db))).Methods("GET")
	router.HandleFunc("/participants/edit/{id}", manager(participants.Edit(db))).Methods("POST")
	router.HandleFunc("/participants/delete/{id}", manager(participants.Delete(db))).Methods("POST")

	router.HandleFunc("/donations", loggedIn(donations.List(db))).Methods("GET")
	router.HandleFunc("/donations/add", manager(donations.AddForm(db))).Methods("GET")
	router.HandleFunc("/donations/add", manager(donations.Add(db))).Methods("POST")
	router.HandleFunc("/donations/edit/{id}", manager(donations.EditForm(db))).Methods("GET")
	router.HandleFunc("/donations/edit/{id}", manager(donations.Edit(db))).Methods("POST")
	router.HandleFunc("/donations/delete/{id}", manager(donations.Delete(db))).Methods("POST")

	router.HandleFunc("/surveys", loggedIn(surveys.List(db))).Methods("GET")
	router.HandleFunc("/surveys/add", manager(surveys.AddForm(db))).Methods("GET")
	router.HandleFunc("/surveys/add", manager(surveys.Add(db))).Methods("POST")
	router.HandleFunc("/surveys/edit/{id}", manager(surveys.EditForm(db))).Methods("GET")
	router.HandleFunc("/surveys/edit/{id}", manager(surveys.Edit(db))).Methods("POST")
	router.HandleFunc("/surveys/delete/{id}", manager(surveys.Delete(db))).Methods("POST")

	router.HandleFunc("/events", loggedIn(events.List(db))).Methods("GET")
	router.HandleFunc("/events/add", manager(events.AddForm(db))).Methods("GET")
	router.HandleFunc("/events/add", manager(events.Add(db))).Methods("POST")
	router.HandleFunc("/events/edit/{id}", manager(events.EditForm(db))).Methods("GET")
	router.HandleFunc("/events/edit/{id}", manager(events.Edit(db))).Methods("POST")
	router.HandleFunc("/events/delete/{id}", manager(events.Delete(db))).Methods("POST")

	router.HandleFunc("/milestones", loggedIn(milestones.List(db))).Methods("GET")
	router.HandleFunc("/milestones/add", manager(milestones.AddForm(db))).Methods("GET")
	router.HandleFunc("/milestones/add", manager(milestones.Add(db))).Methods("POST")
	router.HandleFunc("/milestones/edit/{id}", manager(milestones.EditForm(db))).Methods("GET")
	router.HandleFunc("/milestones/edit/{id}", manager(milestones.Edit(db))).Methods("POST")
	router.HandleFunc("/milestones/delete/{id}", manager(milestones.Delete(db))).Methods("POST")

	router.HandleFunc("/users", loggedIn(users.List(db))).Methods("GET")
	router.HandleFunc("/users/add", manager(users.AddForm(db))).Methods("GET")
	router.HandleFunc("/users/add", manager(users.Add(db))).Methods("POST")
	router.HandleFunc("/users/edit/{id}", manager(users.EditForm(db))).Methods("GET")
	router.HandleFunc("/users/edit/{id}", manager(users.Edit(db))).Methods("POST")
	router.HandleFunc("/users/delete/{id}", manager(users.Delete(db))).Methods("POST")

	router.HandleFunc("/profile/picture", loggedIn(pictures.Upload(db))).Methods("POST")
	router.HandleFunc("/profile/picture/delete", loggedIn(pictures.Delete(db))).Methods("POST")

	router.HandleFunc("/teapot", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "I'm a teapot", http.StatusTeapot)
	}).Methods("GET")

	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	logrus.WithField("port", cfg.Port).Info("server started")
	logrus.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
