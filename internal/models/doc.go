// Package models defines domain entities and persistence interfaces for the weeklymix automation service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing gateway response data
//   - [Playlist] : Playlist metadata returned by createPlaylist
//   - [Track] : Song metadata from searchSpotify results, including release date
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Run] : One execution of the create-playlist-and-add-tracks sequence
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
