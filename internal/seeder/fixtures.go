package seeder

// DefaultFixtures is a small demo catalog covering the common search paths:
// electronics with tag overlap, fashion, and home goods across three vendors.
var DefaultFixtures = []ProductFixture{
	{
		Name:        "Bose QuietComfort 45",
		Description: "Noise cancelling wireless headphones with 24 hour battery life",
		Brand:       "Bose",
		Price:       329.00,
		Stock:       50,
		Rating:      4.5,
		IsHot:       true,
		Tags:        "headphones,wireless,bluetooth,noise-cancelling",
		Category:    "Audio",
		Vendor:      "SoundHub",
		Priority:    10,
	},
	{
		Name:        "Sony WH-1000XM5",
		Description: "Industry leading noise cancelling over-ear headphones",
		Brand:       "Sony",
		Price:       399.99,
		Stock:       35,
		Rating:      4.7,
		IsHot:       true,
		Tags:        "headphones,wireless,bluetooth,noise-cancelling",
		Category:    "Audio",
		Vendor:      "SoundHub",
		Priority:    10,
	},
	{
		Name:        "JBL Go 3 Portable Speaker",
		Description: "Compact waterproof bluetooth speaker with bold sound",
		Brand:       "JBL",
		Price:       39.95,
		Stock:       120,
		Rating:      4.3,
		IsHot:       false,
		Tags:        "speaker,bluetooth,portable,budget",
		Category:    "Audio",
		Vendor:      "SoundHub",
		Priority:    8,
	},
	{
		Name:        "Pixel 9",
		Description: "Smartphone with advanced camera and all-day battery",
		Brand:       "Google",
		Price:       799.00,
		Stock:       60,
		Rating:      4.4,
		IsHot:       true,
		Tags:        "smartphone,mobile,android,camera",
		Category:    "Electronics",
		Vendor:      "GadgetWorld",
		Priority:    9,
	},
	{
		Name:        "ThinkPad X1 Carbon",
		Description: "Lightweight business laptop with 14 inch display",
		Brand:       "Lenovo",
		Price:       1449.00,
		Stock:       18,
		Rating:      4.6,
		IsHot:       false,
		Tags:        "laptop,notebook,computer,business",
		Category:    "Electronics",
		Vendor:      "GadgetWorld",
		Priority:    9,
	},
	{
		Name:        "Galaxy Watch 6",
		Description: "Smartwatch with fitness tracking and sleep coaching",
		Brand:       "Samsung",
		Price:       299.99,
		Stock:       75,
		Rating:      4.2,
		IsHot:       false,
		Tags:        "smartwatch,wearable,fitness,accessories",
		Category:    "Electronics",
		Vendor:      "GadgetWorld",
		Priority:    7,
	},
	{
		Name:        "Air Zoom Pegasus 41",
		Description: "Responsive running shoes for everyday training",
		Brand:       "Nike",
		Price:       139.99,
		Stock:       200,
		Rating:      4.5,
		IsHot:       true,
		Tags:        "sneakers,footwear,running,sport",
		Category:    "Fashion",
		Vendor:      "UrbanStyle",
		Priority:    6,
	},
	{
		Name:        "Classic Denim Jacket",
		Description: "Timeless denim jacket in washed indigo",
		Brand:       "Levi's",
		Price:       89.50,
		Stock:       90,
		Rating:      4.1,
		IsHot:       false,
		Tags:        "clothing,fashion,apparel,denim",
		Category:    "Fashion",
		Vendor:      "UrbanStyle",
		Priority:    5,
	},
	{
		Name:        "Stand Mixer Artisan",
		Description: "Tilt-head stand mixer with 10 speeds and 4.8 litre bowl",
		Brand:       "KitchenAid",
		Price:       449.00,
		Stock:       25,
		Rating:      4.8,
		IsHot:       false,
		Tags:        "appliance,cookware,kitchen,baking",
		Category:    "Home",
		Vendor:      "HomeHaven",
		Priority:    5,
	},
	{
		Name:        "Robot Vacuum S8",
		Description: "Self-emptying robot vacuum with mapping and app control",
		Brand:       "Roborock",
		Price:       599.99,
		Stock:       8,
		Rating:      4.4,
		IsHot:       true,
		Tags:        "appliance,home,cleaning,smart",
		Category:    "Home",
		Vendor:      "HomeHaven",
		Priority:    4,
	},
}
