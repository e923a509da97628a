package handlers

// @title Support Desk API
// @version 1.0
// @description Support tickets, ticket conversations, notifications and customer equipment profiles for a parts storefront.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @tag.name tickets
// @tag.description Ticket lookup, listing, creation and updates

// @tag.name messages
// @tag.description Ticket conversation threads

// @tag.name notifications
// @tag.description Transactional email

// @tag.name equipment
// @tag.description Customer equipment profiles
