package models

type Supplement struct {
	Base        `bson:",inline"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price" json:"price"`
	Stock       int64   `bson:"stock" json:"stock"`
}

type DietDetail struct {
	Base    `bson:",inline"`
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
}
