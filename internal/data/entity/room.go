package entity

import "github.com/google/uuid"

type RoomType string

const (
	RoomType2D   RoomType = "2D"
	RoomType3D   RoomType = "3D"
	RoomTypeIMAX RoomType = "IMAX"
	RoomType4DX  RoomType = "4DX"
)

type Room struct {
	Base
	TheaterID uuid.UUID `db:"theater_id"`
	RoomName  string    `db:"room_name"`
	RoomType  RoomType  `db:"room_type"`
}
