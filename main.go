package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CodedInternet/gorover/comms"
	"github.com/CodedInternet/gorover/onboard"
	"github.com/CodedInternet/gorover/onboard/hardware"
	"github.com/abiosoft/ishell"
	"github.com/asdine/storm"
	"github.com/caarlos0/env"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"gopkg.in/yaml.v2"
)

type EnvConfig struct {
	JWT_ISSUER string `env:"RESIN_DEVICE_UUID" envDefault:"DEV"`
	RESIN      bool   `env:"RESIN" envDefault:"0"`
	DEBUG      bool   `env:"DEBUG" envDefault:"0"`
	SRCDIR     string `env:"SRCDIR" envDefault:"."`
	HTMLDIR    string `env:"HTMLDIR" envDefault:"./frontend/dist/"`
	DB         *storm.DB
	Rover      onboard.Rover
	Conductor  *comms.Conductor
	Simulated  bool
}

var (
	ENV *EnvConfig
)

func init() {
	// Load main config
	ENV = new(EnvConfig)
	env.Parse(ENV)

	// get db path, this depends on if we are running on a resin device
	var dbFile string
	if ENV.RESIN {
		dbFile = "/data/live.db"
	} else {
		dbFile, _ = filepath.Abs("./tmp/dev.db")
		dir := filepath.Dir(dbFile)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			os.Mkdir(dir, 0755)
		}
	}

	db, err := openDb(dbFile)
	if err != nil {
		panic(err)
	}
	ENV.DB = db
}

func main() {
	// process flags
	simulated := flag.Bool("sim", false, "Run the device in simulator mode")
	port := flag.String("port", "0.0.0.0:80", "Specify the ip:port to listen on")
	flag.Parse()

	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Recoverer) // make sure this is last

	defer ENV.DB.Close() // close database when finished

	config, err := loadConfig()
	if err != nil {
		panic(fmt.Sprintf("Unable to load rover config: %v", err))
	}

	var rover *onboard.ActuatorRover
	ENV.Simulated = *simulated
	if ENV.Simulated {
		println("Creating simulator")
		rover, err = onboard.NewRoverSimulator(config)
	} else {
		rover, err = onboard.NewActuatorRover(config)
	}
	if err != nil {
		panic(fmt.Sprintf("Unable to initialize rover: %v", err))
	}
	ENV.Rover = rover

	ENV.Conductor = &comms.Conductor{Device: rover}

	//---
	// Create a local shell
	//---
	startShell(rover)

	//---
	// Build the API routes
	//---
	r.Route("/api", func(r chi.Router) {
		// login
		r.Post("/login", Login)

		r.Group(func(r chi.Router) {
			if ENV.RESIN && !ENV.DEBUG {
				// Seek, verify and validate JWT tokens in production
				r.Use(ValidateJWT)
			} else {
				fmt.Println("Running in debug mode. Authentication disabled.")
			}

			r.Post("/control", APIControl)
			r.Post("/stop", APIStop)
			r.Get("/state", APIState)
			r.Get("/refresh_token", JWTRefresh)
		})
	})

	// Plain text control endpoint the slider page talks to
	r.Get("/control", HandleControl)

	// Add websocket routes
	r.Route("/ws", func(r chi.Router) {
		if ENV.RESIN && !ENV.DEBUG {
			r.Use(ValidateJWT)
		}

		r.Get("/state", StateHandler)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not found"))
	})

	// add static base routes
	FileServer(r, "/", http.Dir(ENV.HTMLDIR))

	fmt.Println("Listening on port", *port)
	err = http.ListenAndServe(*port, r)

	// drop the drive and release the pins so the motors are not left
	// holding the last commanded duty
	ENV.Rover.Stop()
	if !ENV.Simulated {
		hardware.Close()
	}
	log.Fatal(err)
}

func loadConfig() (config onboard.RoverConfig, err error) {
	var filename string
	if ENV.RESIN {
		filename = "/data/rover_config.yaml"
	} else {
		filename, err = filepath.Abs(ENV.SRCDIR + "/rover_config.yaml")
		if err != nil {
			return
		}
	}

	yamlFile, err := ioutil.ReadFile(filename)
	if err != nil {
		return
	}

	err = yaml.Unmarshal(yamlFile, &config)
	return
}

func startShell(rover onboard.Rover) {
	shell := ishell.New()
	shell.Println("gorover development shell")
	shell.ShowPrompt(true)

	shell.AddCmd(&ishell.Cmd{
		Name: "createsuperuser",
		Help: "createsuperuser <email> <password>",
		Func: func(c *ishell.Context) {
			c.ShowPrompt(false)
			defer c.ShowPrompt(true)

			var email string
			if len(c.Args) >= 1 {
				email = c.Args[0]
			} else {
				c.Print("Email: ")
				email = c.ReadLine()
			}

			var password string
			if len(c.Args) >= 2 {
				password = c.Args[1]
			} else {
				c.Print("Password: ")
				password = c.ReadPassword()
			}

			user := &User{
				Email: email,
				Name:  email,
				Admin: true,
			}
			user.SetPassword([]byte(password))
			if err := ENV.DB.Save(user); err != nil {
				panic(err)
			}

			c.Println("Superuser created")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "control",
		Help: "control <throttle> <steer> <elev>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 3 {
				c.Err(fmt.Errorf("usage: control <throttle> <steer> <elev>"))
				return
			}
			throttle, _ := strconv.Atoi(c.Args[0])
			steer, _ := strconv.Atoi(c.Args[1])
			elev, _ := strconv.Atoi(c.Args[2])

			state := rover.Apply(onboard.ControlUpdate{
				Throttle: &throttle,
				Steer:    &steer,
				Elevator: &elev,
			})
			ENV.Conductor.UpdateClients()
			c.Println(state.String())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "center",
		Help: "center the elevator servo",
		Func: func(c *ishell.Context) {
			center := onboard.ELEVATOR_CENTER_DEG
			state := rover.Apply(onboard.ControlUpdate{Elevator: &center})
			ENV.Conductor.UpdateClients()
			c.Println(state.String())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "zero the drive motors",
		Func: func(c *ishell.Context) {
			state := rover.Stop()
			ENV.Conductor.UpdateClients()
			c.Println(state.String())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "print the current applied state",
		Func: func(c *ishell.Context) {
			c.Println(rover.Status())
		},
	})

	// Start an instance of the shell so it can be controlled from the CLI
	go shell.Start()
}

func openDb(dbFile string) (db *storm.DB, err error) {
	db, err = storm.Open(dbFile)
	if err != nil {
		return
	}

	// call inits for each type
	if err := db.Init(&User{}); err != nil {
		return nil, err
	}

	return
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	fs := http.StripPrefix(path, http.FileServer(root))

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	}))
}
