package sqlinline

const QInsertWedding = `--sql e709c22d-ce46-40da-9eab-b2fbb3aad9b5
insert into weddings(id, owner_id, title, story, event_date, location, cover_image_ref, status, created_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, 'active', $8::timestamptz);
`

const QGetWedding = `--sql de22d61b-a511-440f-9fc5-56f5dbfb3cdc
select id, owner_id, title, story, event_date, location, cover_image_ref, status, created_at
from weddings
where id = $1::uuid;
`

const QListWeddingsByOwner = `--sql d867186b-fc9c-4f36-889b-ed1a008fdaec
select id, owner_id, title, story, event_date, location, cover_image_ref, status, created_at
from weddings
where owner_id = $1::text
order by created_at desc;
`

const QUpdateWedding = `--sql 27e85068-af82-437e-85e9-5563e46ead27
update weddings
set title = $2::text,
	story = $3::text,
	event_date = $4::text,
	location = $5::text,
	cover_image_ref = $6::text
where id = $1::uuid and status = 'active';
`

// QArchiveWedding archives the page and cascades over its gifts in a single
// statement so the two updates cannot be observed apart.
const QArchiveWedding = `--sql 236f1c7c-edc3-49a0-806f-a88d6294f18d
with archived_page as (
	update weddings
	set status = 'archived'
	where id = $1::uuid and status = 'active'
	returning id
)
update gifts
set status = 'archived'
where wedding_id in (select id from archived_page) and status = 'active';
`
