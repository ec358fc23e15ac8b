package seed

// Categories are the sample categories, each with a Font Awesome icon class
var Categories = []CategorySpec{
	{Name: "Fiction", Description: "Fiction books including novels and short stories", Icon: "fas fa-book"},
	{Name: "Non-Fiction", Description: "Non-fiction books including biographies and history", Icon: "fas fa-book-open"},
	{Name: "Science Fiction", Description: "Science fiction and fantasy books", Icon: "fas fa-rocket"},
	{Name: "Mystery", Description: "Mystery and thriller books", Icon: "fas fa-search"},
	{Name: "Romance", Description: "Romance novels and love stories", Icon: "fas fa-heart"},
	{Name: "Biography", Description: "Biographies and autobiographies", Icon: "fas fa-user"},
	{Name: "History", Description: "Historical books and accounts", Icon: "fas fa-landmark"},
	{Name: "Poetry", Description: "Poetry collections and anthologies", Icon: "fas fa-pen-fancy"},
}

// Books is the sample catalog; Category refers to a Categories name
var Books = []BookSpec{
	{
		Title:           "The Great Gatsby",
		Author:          "F. Scott Fitzgerald",
		Category:        "Fiction",
		Description:     "A story of decadence and excess, Gatsby explores the darker aspects of the Jazz Age.",
		ISBN:            "9780743273565",
		PublicationDate: "1925-04-10",
		Publisher:       "Scribner",
		Pages:           180,
		Language:        "English",
		Price:           "14.99",
		RentalPrice:     "2.99",
		Quantity:        3,
	},
	{
		Title:           "1984",
		Author:          "George Orwell",
		Category:        "Science Fiction",
		Description:     "A dystopian social science fiction novel that examines the consequences of totalitarianism.",
		ISBN:            "9780451524935",
		PublicationDate: "1949-06-08",
		Publisher:       "Signet Classic",
		Pages:           328,
		Language:        "English",
		Price:           "12.99",
		RentalPrice:     "2.49",
		Quantity:        5,
	},
	{
		Title:           "The Silent Patient",
		Author:          "Alex Michaelides",
		Category:        "Mystery",
		Description:     "A woman shoots her husband dead. She never speaks another word. A criminal psychotherapist is determined to get her to talk.",
		ISBN:            "9781250301697",
		PublicationDate: "2019-02-05",
		Publisher:       "Celadon Books",
		Pages:           336,
		Language:        "English",
		Price:           "16.99",
		RentalPrice:     "3.99",
		Quantity:        2,
	},
	{
		Title:           "Pride and Prejudice",
		Author:          "Jane Austen",
		Category:        "Romance",
		Description:     "A classic romance following the spirited Elizabeth Bennet as she navigates love and marriage.",
		ISBN:            "9780141439518",
		PublicationDate: "1813-01-28",
		Publisher:       "Penguin Classics",
		Pages:           432,
		Language:        "English",
		Price:           "9.99",
		RentalPrice:     "1.99",
		Quantity:        4,
	},
	{
		Title:           "Steve Jobs",
		Author:          "Walter Isaacson",
		Category:        "Biography",
		Description:     "The biography of Apple co-founder Steve Jobs, based on more than forty interviews with Jobs.",
		ISBN:            "9781451648539",
		PublicationDate: "2011-10-24",
		Publisher:       "Simon & Schuster",
		Pages:           656,
		Language:        "English",
		Price:           "24.99",
		RentalPrice:     "4.99",
		Quantity:        2,
	},
	{
		Title:           "Sapiens",
		Author:          "Yuval Noah Harari",
		Category:        "Non-Fiction",
		Description:     "A brief history of humankind, from ancient humans to the present day.",
		ISBN:            "9780062316097",
		PublicationDate: "2015-02-10",
		Publisher:       "Harper",
		Pages:           443,
		Language:        "English",
		Price:           "21.99",
		RentalPrice:     "4.49",
		Quantity:        3,
	},
	{
		Title:           "The Iliad",
		Author:          "Homer",
		Category:        "Poetry",
		Description:     "An epic poem set during the Trojan War, the ten-year siege of the city of Troy.",
		ISBN:            "9780140275360",
		PublicationDate: "1998-11-01",
		Publisher:       "Penguin Classics",
		Pages:           704,
		Language:        "English",
		Price:           "15.99",
		RentalPrice:     "3.49",
		Quantity:        2,
	},
	{
		Title:           "Guns, Germs, and Steel",
		Author:          "Jared Diamond",
		Category:        "History",
		Description:     "A book that attempts to explain why Eurasian civilizations have survived and conquered others.",
		ISBN:            "9780393061314",
		PublicationDate: "1997-03-01",
		Publisher:       "W. W. Norton & Company",
		Pages:           480,
		Language:        "English",
		Price:           "19.99",
		RentalPrice:     "3.99",
		Quantity:        3,
	},
	{
		Title:           "The Midnight Library",
		Author:          "Matt Haig",
		Category:        "Fiction",
		Description:     "Between life and death there is a library, and within that library, the shelves go on forever. Every book provides a chance to try another life you could have lived.",
		ISBN:            "9780525559474",
		PublicationDate: "2020-09-29",
		Publisher:       "Viking",
		Pages:           304,
		Language:        "English",
		Price:           "22.99",
		RentalPrice:     "4.99",
		Quantity:        4,
	},
	{
		Title:           "Project Hail Mary",
		Author:          "Andy Weir",
		Category:        "Science Fiction",
		Description:     "A lone astronaut must save the earth from disaster in this incredible new science-based thriller from the #1 New York Times bestselling author of The Martian.",
		ISBN:            "9780593135204",
		PublicationDate: "2021-05-04",
		Publisher:       "Ballantine Books",
		Pages:           496,
		Language:        "English",
		Price:           "24.99",
		RentalPrice:     "4.99",
		Quantity:        3,
	},
	{
		Title:           "The Seven Husbands of Evelyn Hugo",
		Author:          "Taylor Jenkins Reid",
		Category:        "Romance",
		Description:     "An entrancing novel about love, fame, and the cost of living in the spotlight, following the life of a legendary Hollywood actress.",
		ISBN:            "9781501161933",
		PublicationDate: "2017-06-13",
		Publisher:       "Washington Square Press",
		Pages:           400,
		Language:        "English",
		Price:           "16.99",
		RentalPrice:     "3.49",
		Quantity:        5,
	},
	{
		Title:           "Atomic Habits",
		Author:          "James Clear",
		Category:        "Non-Fiction",
		Description:     "A revolutionary system to get 1 percent better every day, showing how small changes in daily routines can transform your life.",
		ISBN:            "9780735211292",
		PublicationDate: "2018-10-16",
		Publisher:       "Avery",
		Pages:           320,
		Language:        "English",
		Price:           "19.99",
		RentalPrice:     "3.99",
		Quantity:        6,
	},
	{
		Title:           "The Thursday Murder Club",
		Author:          "Richard Osman",
		Category:        "Mystery",
		Description:     "Four unlikely friends meet weekly in their retirement village to discuss unsolved crimes; when a real murder occurs, they find themselves in the middle of their first live case.",
		ISBN:            "9781984880963",
		PublicationDate: "2020-09-03",
		Publisher:       "Penguin",
		Pages:           384,
		Language:        "English",
		Price:           "18.99",
		RentalPrice:     "3.99",
		Quantity:        4,
	},
	{
		Title:           "The Code Breaker",
		Author:          "Walter Isaacson",
		Category:        "Biography",
		Description:     "The story of Jennifer Doudna and her colleagues' development of CRISPR gene-editing technology.",
		ISBN:            "9781982115852",
		PublicationDate: "2021-03-09",
		Publisher:       "Simon & Schuster",
		Pages:           560,
		Language:        "English",
		Price:           "26.99",
		RentalPrice:     "5.49",
		Quantity:        3,
	},
	{
		Title:           "The 1619 Project",
		Author:          "Nikole Hannah-Jones",
		Category:        "History",
		Description:     "A groundbreaking reframing of American history that places slavery and its continuing legacy at the center of our national narrative.",
		ISBN:            "9780593230572",
		PublicationDate: "2021-11-16",
		Publisher:       "One World",
		Pages:           624,
		Language:        "English",
		Price:           "27.99",
		RentalPrice:     "5.99",
		Quantity:        4,
	},
	{
		Title:           "Milk and Honey",
		Author:          "Rupi Kaur",
		Category:        "Poetry",
		Description:     "A collection of poetry and prose about survival, love, loss, and femininity.",
		ISBN:            "9781449474256",
		PublicationDate: "2015-10-06",
		Publisher:       "Andrews McMeel Publishing",
		Pages:           208,
		Language:        "English",
		Price:           "14.99",
		RentalPrice:     "2.99",
		Quantity:        5,
	},
	{
		Title:           "Tomorrow, and Tomorrow, and Tomorrow",
		Author:          "Gabrielle Zevin",
		Category:        "Fiction",
		Description:     "A modern tale about the friendship between two creative partners who design video games, spanning thirty years of success, jealousy, and connection.",
		ISBN:            "9780593321201",
		PublicationDate: "2022-07-05",
		Publisher:       "Knopf",
		Pages:           416,
		Language:        "English",
		Price:           "25.99",
		RentalPrice:     "4.99",
		Quantity:        4,
	},
	{
		Title:           "Dune",
		Author:          "Frank Herbert",
		Category:        "Science Fiction",
		Description:     "Set on the desert planet Arrakis, Dune is the story of the boy Paul Atreides, heir to a noble family tasked with ruling an inhospitable world.",
		ISBN:            "9780441172719",
		PublicationDate: "1990-09-01",
		Publisher:       "Ace",
		Pages:           896,
		Language:        "English",
		Price:           "18.99",
		RentalPrice:     "3.99",
		Quantity:        5,
	},
	{
		Title:           "The Paris Apartment",
		Author:          "Lucy Foley",
		Category:        "Mystery",
		Description:     "A woman arrives at her brother's apartment in Paris only to find him missing, and every one of his neighbors could be a suspect.",
		ISBN:            "9780063003057",
		PublicationDate: "2022-02-22",
		Publisher:       "William Morrow",
		Pages:           368,
		Language:        "English",
		Price:           "23.99",
		RentalPrice:     "4.49",
		Quantity:        3,
	},
	{
		Title:           "Book Lovers",
		Author:          "Emily Henry",
		Category:        "Romance",
		Description:     "A literary agent and an editor keep running into each other in a small town, defying the typical small-town romance tropes.",
		ISBN:            "9780593440872",
		PublicationDate: "2022-05-03",
		Publisher:       "Berkley",
		Pages:           384,
		Language:        "English",
		Price:           "17.99",
		RentalPrice:     "3.49",
		Quantity:        4,
	},
	{
		Title:           "Finding Me",
		Author:          "Viola Davis",
		Category:        "Biography",
		Description:     "The memoir of actress and producer Viola Davis, from her roots in poverty to her rise as an award-winning artist.",
		ISBN:            "9780063037328",
		PublicationDate: "2022-04-26",
		Publisher:       "HarperOne",
		Pages:           304,
		Language:        "English",
		Price:           "24.99",
		RentalPrice:     "4.99",
		Quantity:        3,
	},
	{
		Title:           "Think Again",
		Author:          "Adam Grant",
		Category:        "Non-Fiction",
		Description:     "Learn to rethink your opinions and open other people's minds, exploring how to embrace the joy of being wrong.",
		ISBN:            "9781984878106",
		PublicationDate: "2021-02-02",
		Publisher:       "Viking",
		Pages:           320,
		Language:        "English",
		Price:           "20.99",
		RentalPrice:     "4.29",
		Quantity:        4,
	},
	{
		Title:           "The Dawn of Everything",
		Author:          "David Graeber & David Wengrow",
		Category:        "History",
		Description:     "A new history of humanity that challenges our most fundamental assumptions about social evolution.",
		ISBN:            "9780374157357",
		PublicationDate: "2021-11-09",
		Publisher:       "Farrar, Straus and Giroux",
		Pages:           704,
		Language:        "English",
		Price:           "28.99",
		RentalPrice:     "5.99",
		Quantity:        3,
	},
	{
		Title:           "Call Us What We Carry",
		Author:          "Amanda Gorman",
		Category:        "Poetry",
		Description:     "A collection of poems exploring history, language, identity, and erasure through an imaginative and intimate collage.",
		ISBN:            "9780593465066",
		PublicationDate: "2021-12-07",
		Publisher:       "Viking Books",
		Pages:           240,
		Language:        "English",
		Price:           "19.99",
		RentalPrice:     "3.99",
		Quantity:        4,
	},
}
