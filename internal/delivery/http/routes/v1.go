package routes

import "github.com/gofiber/fiber/v3"

func RegisterV1(r fiber.Router, reg *Registry) {
	if r == nil || reg == nil {
		return
	}

	if reg.Match != nil {
		reg.Match.RegisterRoutes(r)
	}
	if reg.Events != nil {
		reg.Events.RegisterRoutes(r)
	}
	if reg.Mentorship != nil {
		reg.Mentorship.RegisterRoutes(r)
	}
}
